// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"kuyou/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

var nicknamePool = []string{
	"さまよえる子羊", "夜更かしのフクロウ", "通りすがりの旅人", "月見うどん",
	"迷える社会人", "眠れない猫", "風の便り", "砂漠のラクダ",
	"物思いにふける鯉", "窓際のサボテン", "日陰のコケ", "屋根裏のネズミ",
}

var confessionTemplates = map[string][]string{
	models.CategoryLove: {
		"片思いの相手に連絡先を聞けないまま、もう半年が経ちました。",
		"恋人の浮気を疑ってしまう自分が嫌になります。",
		"別れた人のSNSを毎晩見てしまいます。やめたいのにやめられません。",
	},
	models.CategoryWork: {
		"仕事で大きなミスをしたのに、上司に報告できていません。",
		"同期がどんどん昇進していくのを見ると、焦りで眠れなくなります。",
		"転職したい気持ちを誰にも打ち明けられずにいます。",
	},
	models.CategorySchool: {
		"授業についていけず、友達にも先生にも相談できません。",
		"受験に失敗したことを、まだ親に言えていません。",
		"部活を辞めたいのに、仲間を裏切る気がして言い出せません。",
	},
	models.CategoryFamily: {
		"親の介護のことで兄弟と揉めていて、家に帰るのが憂鬱です。",
		"家族に本音を言えないまま、何年も経ってしまいました。",
		"実家に帰るたびに結婚の話をされるのがつらいです。",
	},
	models.CategoryFriend: {
		"親友の結婚を心から祝えない自分が情けないです。",
		"グループの中で自分だけ誘われていないことに気づいてしまいました。",
		"友人にお金を貸したまま、返してと言い出せません。",
	},
	models.CategoryOther: {
		"誰にも言えなかったことを、ここに書きます。聞いてください。",
		"理由もなく涙が出る夜があります。自分でもよくわかりません。",
		"最近ずっと、自分の将来が見えなくて不安です。",
	},
}

var replyTemplates = []string{
	"私も同じ経験があります。焦らなくて大丈夫ですよ。",
	"全部を一人で抱え込まないでください。書いてくれてありがとう。",
	"時間はかかるかもしれませんが、きっと楽になります。",
	"無理せず、まずはゆっくり休んでください。",
	"あなたは十分頑張っていると思います。",
	"信頼できる人に少しだけ話してみるのはどうでしょうか。",
}

// Factory builds randomized domain entities for seeding.
type Factory struct {
	rng          *rand.Rand
	passwordHash string
}

// NewFactory creates a Factory. All generated users share the same
// password ("password123") so dev logins are predictable.
func NewFactory(src rand.Source) (*Factory, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	rng := rand.New(src)
	gofakeit.Seed(rng.Int63())
	return &Factory{rng: rng, passwordHash: string(hash)}, nil
}

// User builds an unsaved user with a unique email.
func (f *Factory) User(n int) *models.User {
	nickname := ""
	// Roughly a third of users keep the ID-derived pseudonym.
	if f.rng.Intn(3) != 0 {
		nickname = nicknamePool[f.rng.Intn(len(nicknamePool))]
	}
	return &models.User{
		Email:    fmt.Sprintf("seed-%d-%s", n, gofakeit.Email()),
		Password: f.passwordHash,
		Nickname: nickname,
	}
}

// Category picks a random post category.
func (f *Factory) Category() string {
	return models.Categories[f.rng.Intn(len(models.Categories))]
}

// Confession returns post content appropriate for the category.
func (f *Factory) Confession(category string) string {
	templates := confessionTemplates[category]
	if len(templates) == 0 {
		templates = confessionTemplates[models.CategoryOther]
	}
	return templates[f.rng.Intn(len(templates))]
}

// Reply returns supportive reply content.
func (f *Factory) Reply() string {
	return replyTemplates[f.rng.Intn(len(replyTemplates))]
}

// Backdate returns a time up to maxDays in the past for a realistic
// created_at spread.
func (f *Factory) Backdate(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 30
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}
