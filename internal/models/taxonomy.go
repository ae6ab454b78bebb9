package models

// The marketplace category taxonomy is fixed: two levels, seeded on first
// sight of a user and thereafter mutated only by explicit toggles. The slice
// keeps the menu ordering stable (maps would shuffle keyboards on every
// render).
type categoryDef struct {
	name string
	subs []string
}

var taxonomy = []categoryDef{
	{"Разработка", []string{
		"Сайты «под ключ»",
		"Бэкенд",
		"Фронтенд",
		"Прототипирование",
		"iOS",
		"Android",
		"Десктопное ПО",
		"Боты и парсинг данных",
		"Разработка игр",
		"1С-программирование",
		"Скрипты и плагины",
		"Разное",
	}},
	{"Тестирование", []string{
		"Сайты",
		"Мобайл",
		"Софт",
	}},
	{"Администрирование", []string{
		"Серверы",
		"Компьютерные сети",
		"Базы данных",
		"Защита ПО и безопасность",
		"Разное",
	}},
	{"Дизайн", []string{
		"Сайты",
		"Лендинги",
		"Логотипы",
		"Рисунки и иллюстрации",
		"Мобильные приложения",
		"Иконки",
		"Полиграфия",
		"Баннеры",
		"Векторная графика",
		"Фирменный стиль",
		"Презентации",
		"3D",
		"Анимация",
		"Обработка фото",
		"Разное",
	}},
	{"Контент", []string{
		"Копирайтинг",
		"Рерайтинг",
		"Расшифровка аудио и видео",
		"Статьи и новости",
		"Сценарии",
		"Нейминг и слоганы",
		"Редактура и корректура",
		"Переводы",
		"Рефераты, дипломы, курсовые",
		"Техническая документация",
		"Контент-менеджмент",
		"Разное",
	}},
	{"Маркетинг", []string{
		"SMM",
		"SEO",
		"Контекстная реклама",
		"E-mail маркетинг",
		"Исследования рынка и опросы",
		"Продажи и генерация лидов",
		"PR-менеджмент",
		"Разное",
	}},
	{"Разное", []string{
		"Аудит и аналитика",
		"Консалтинг",
		"Юриспруденция",
		"Бухгалтерские услуги",
		"Аудио",
		"Видео",
		"Инженерия",
		"Разное",
	}},
}

// CategoryNames returns the category menu order.
func CategoryNames() []string {
	names := make([]string, len(taxonomy))
	for i, c := range taxonomy {
		names[i] = c.name
	}
	return names
}

// SubcategoryNames returns the submenu order for a category, nil for an
// unknown one.
func SubcategoryNames(category string) []string {
	for _, c := range taxonomy {
		if c.name == category {
			return c.subs
		}
	}
	return nil
}

func defaultCategories() map[string]map[string]bool {
	categories := make(map[string]map[string]bool, len(taxonomy))
	for _, c := range taxonomy {
		subs := make(map[string]bool, len(c.subs))
		for _, sub := range c.subs {
			subs[sub] = false
		}
		categories[c.name] = subs
	}
	return categories
}
