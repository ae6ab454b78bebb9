package bot

const (
	textStart = "*Добро пожаловать!*\n\n" +
		"Вы можете выбрать интересующие вас категории, " +
		"также вы можете включить автоответы для заказов"

	textMain = "Вы можете выбрать интересующие вас категории, " +
		"также вы можете включить автоответы для заказов"

	textNotificationsOn  = "Уведомления о новых заказах *включены*"
	textNotificationsOff = "Уведомления о новых заказах *отключены*"

	textChooseCategory       = "Выберите категории заказов, по которым хотите получать обновления"
	textChooseSubcategory    = "Вы можете выбрать подкатегории для выбранных категорий заказов"
	textChooseSubSubcategory = "Выберите подкатегории заказов, по которым хотите получать обновления"

	textCategoryOn  = "Вы подписались на категорию «%s»"
	textCategoryOff = "Вы отписались от категории «%s»"

	textSubcategoryOn  = "Вы подписались на подкатегорию «%s»"
	textSubcategoryOff = "Вы отписались от подкатегории «%s»"

	textAutoAnswerOn  = "Вы можете выключить автоответы в любое время"
	textAutoAnswerOff = "Вы можете включить автоответы в любое время"

	textUnavailable = "Временно недоступно"

	textTaskExpired = "Информация по заказу устарела"
	textBadTaskID   = "Не удалось разобрать идентификатор заказа"
)

const (
	btnTaskList         = "Список задач"
	btnChooseCategories = "Выбор категорий"
	btnNotifyOn         = "Включить уведомления"
	btnNotifyOff        = "Отключить уведомления"

	btnAutoAnswerOn   = "Включить автоответы"
	btnAutoAnswerOff  = "Выключить автоответы"
	btnCookiesExample = "Пример cookies данных"

	btnBack = "Назад"
	btnNext = "Далее"
	btnDone = "Готово"

	btnShowFull = "Показать полностью"
	btnHide     = "Скрыть"
	btnRefresh  = "Обновить"

	// Subscription toggle markers shown on category buttons. The trailing
	// space is part of the prefix.
	markerOn  = "● "
	markerOff = "○ "

	subcategoryBtnPrefix = "Выбрать подкатегории в «"
	subcategoryBtnSuffix = "»"
)
