package catalog

// Entry is one category with its candidate topics in display order.
type Entry struct {
	Category string
	Topics   []string
}

// Pair is a single (category, topic) candidate.
type Pair struct {
	Category string
	Topic    string
}

// Catalog is an immutable list of categories.
type Catalog []Entry

// Pairs flattens the catalog preserving category and topic order.
func (c Catalog) Pairs() []Pair {
	var pairs []Pair
	for _, entry := range c {
		for _, topic := range entry.Topics {
			pairs = append(pairs, Pair{Category: entry.Category, Topic: topic})
		}
	}
	return pairs
}

// Categories returns category keys in catalog order.
func (c Catalog) Categories() []string {
	keys := make([]string, 0, len(c))
	for _, entry := range c {
		keys = append(keys, entry.Category)
	}
	return keys
}

// Has reports whether category is a catalog key.
func (c Catalog) Has(category string) bool {
	for _, entry := range c {
		if entry.Category == category {
			return true
		}
	}
	return false
}

const defaultLabel = "Telegram"

// categoryLabels are the prepositional-case labels used in fallback excerpts.
var categoryLabels = map[string]string{
	"telegram-ads": "Telegram Ads",
	"mini-apps":    "Mini Apps",
	"traffic":      "трафике",
	"cases":        "кейсах",
	"guides":       "гайдах",
}

// Label returns the human label of a category, "Telegram" for unknown keys.
func Label(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return defaultLabel
}

// Default is the compiled-in topic catalog.
var Default = Catalog{
	{
		Category: "telegram-ads",
		Topics: []string{
			"Как настроить таргетинг в Telegram Ads для максимальной конверсии",
			"Ошибки новичков в Telegram Ads и как их избежать",
			"Сколько стоит реклама в Telegram Ads: актуальные цены",
			"Telegram Ads vs посевы: что выбрать для продвижения",
			"Как писать эффективные креативы для Telegram Ads",
			"Анализ конкурентов в Telegram Ads: пошаговый гайд",
			"Ретаргетинг в Telegram: возможности и ограничения",
			"Как масштабировать рекламу в Telegram без потери ROI",
			"Модерация в Telegram Ads: как пройти с первого раза",
			"Лучшие ниши для рекламы в Telegram Ads",
		},
	},
	{
		Category: "mini-apps",
		Topics: []string{
			"Топ-10 прибыльных ниш для Telegram Mini Apps в 2025",
			"Как интегрировать рекламу в Mini App: полный гайд",
			"TON Connect в Mini Apps: монетизация через криптовалюту",
			"UX-дизайн для Mini Apps: лучшие практики",
			"Как увеличить retention в Telegram Mini App",
			"Rewarded Video vs Banner: что приносит больше дохода",
			"Аналитика в Mini Apps: какие метрики отслеживать",
			"Как пройти модерацию Telegram для Mini App",
			"Tap-to-earn игры: как создать и монетизировать",
			"Mini Apps vs обычные приложения: плюсы и минусы",
		},
	},
	{
		Category: "traffic",
		Topics: []string{
			"Где искать качественный трафик для Telegram в 2025",
			"Сравнение рекламных сетей для Telegram: кто лучше",
			"Как отличить ботовый трафик от реального",
			"Арбитраж трафика в Telegram: с чего начать",
			"Воронки продаж в Telegram: от трафика до покупки",
			"Как снизить стоимость подписчика в 2 раза",
			"Вирусные механики для органического роста канала",
			"Партнёрские программы в Telegram: обзор лучших",
			"Инфлюенс-маркетинг в Telegram: полный гайд",
			"Кросс-промо в Telegram: как договариваться",
		},
	},
	{
		Category: "cases",
		Topics: []string{
			"Кейс: запуск NFT-проекта через Mini Apps",
			"Как мы привлекли 100К подписчиков за месяц",
			"Кейс: монетизация игрового Mini App на $50K/месяц",
			"Продвижение DeFi-проекта в Telegram: кейс",
			"Кейс: e-commerce бот с конверсией 15%",
			"Как мы снизили CPA в 3 раза для крипто-проекта",
			"Кейс: запуск SaaS-продукта через Telegram",
			"Продвижение образовательного канала: кейс",
			"Кейс: вирусный рост канала с 0 до 500К",
			"ROI 500%: кейс рекламы в Mini Apps",
		},
	},
	{
		Category: "guides",
		Topics: []string{
			"Полный гайд по TON для маркетологов",
			"Как создать Telegram-бота с нуля: пошаговая инструкция",
			"Гайд по аналитике Telegram-канала",
			"Как работать с инфлюенсерами в Telegram",
			"Контент-план для Telegram-канала: шаблон и примеры",
			"Гайд по автоматизации в Telegram",
			"Как проводить A/B тесты в Telegram рекламе",
			"Юридические аспекты рекламы в Telegram",
			"Telegram Premium: что даёт для бизнеса",
			"Безопасность Telegram-канала: защита от взлома",
		},
	},
}
