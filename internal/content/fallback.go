package content

import (
	"fmt"
	"html"
	"math/rand/v2"
	"strings"

	"ArticlePublisher/internal/catalog"
	"ArticlePublisher/internal/domain"
)

const (
	minReadMinutes = 5
	maxReadMinutes = 12
)

const excerptTemplate = "Подробная статья о %s. Разбираем ключевые аспекты, делимся советами и примерами от %s."

const bodyTemplate = `<h2>Введение</h2>
<p>В этой статье разберём тему: <strong>{topic}</strong>. Вы узнаете стратегии, советы и примеры от экспертов {brand}.</p>

<h2>Почему это важно в 2025</h2>
<p>Telegram — одна из самых быстрорастущих платформ. 900+ миллионов пользователей активно взаимодействуют с каналами, ботами и Mini Apps.</p>

<h2>Основные стратегии</h2>
<ul>
<li><strong>Определите ЦА</strong> — чётко понимайте, кого привлекаете</li>
<li><strong>Качественный контент</strong> — основа органического роста</li>
<li><strong>Тестируйте</strong> — A/B тесты помогут найти лучшее решение</li>
<li><strong>Анализируйте</strong> — без данных нет оптимизации</li>
</ul>

<h2>Советы от {brand}</h2>
<p>Начните с малого бюджета, тестируйте 2 недели, затем масштабируйте успешное.</p>

<blockquote><p>«Ключ к успеху — понимание аудитории и постоянное тестирование!» — {brand}</p></blockquote>

<h2>Заключение</h2>
<p>Нужна помощь? Обращайтесь к {brand} — поможем достичь целей!</p>`

// Fallback produces template articles without any network access.
type Fallback struct {
	brand string
	rnd   *rand.Rand
}

// NewFallback builds the local generator; a nil rnd uses a time-seeded source.
func NewFallback(brand string, rnd *rand.Rand) *Fallback {
	if brand == "" {
		brand = "TRAFFY"
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Fallback{brand: brand, rnd: rnd}
}

// Draft never fails: the excerpt names the category label and the read time
// is a random 5-12 minutes.
func (f *Fallback) Draft(topic, category string) domain.ArticleDraft {
	minutes := minReadMinutes + f.rnd.IntN(maxReadMinutes-minReadMinutes+1)
	body := strings.NewReplacer("{topic}", html.EscapeString(topic), "{brand}", html.EscapeString(f.brand)).Replace(bodyTemplate)

	return domain.ArticleDraft{
		Title:    topic,
		Excerpt:  fmt.Sprintf(excerptTemplate, catalog.Label(category), f.brand),
		ReadTime: fmt.Sprintf("%d мин", minutes),
		Body:     body,
	}
}
