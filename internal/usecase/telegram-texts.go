package usecase

import "github.com/iamvkosarev/reply-genie-bot/pkg/local"

var (
	textStart = local.NewPhrase(
		"Hi! I'm Reply Genie. Paste the messages you got and I'll suggest three replies.\n\n"+
			"Plain text is added as a message from the other person. Use /me for your own messages, "+
			"/tone, /length and /type to tune the result, then /generate.\n\n/help lists everything.",
		local.In(
			local.Rus,
			"Привет! Я Reply Genie. Пришлите полученные сообщения, и я предложу три варианта ответа.\n\n"+
				"Обычный текст добавляется как сообщение собеседника. /me добавляет ваше сообщение, "+
				"/tone, /length и /type настраивают результат, затем /generate.\n\n/help покажет все команды.",
		),
	)
	textHelp = local.NewPhrase(
		"/them <text> add a message from the other person (plain text works too)\n"+
			"/me <text> add a message you sent\n"+
			"/remove <n> remove message n\n"+
			"/history show the conversation and settings\n"+
			"/tone choose a tone, /tone <description> for a custom one\n"+
			"/length short, medium or long replies\n"+
			"/mode reply to a conversation or start a new one\n"+
			"/type text, direct message or email\n"+
			"/to <name> who you are talking to\n"+
			"/context <text> anything the replies should consider\n"+
			"/about <text> what you want to say when starting a conversation\n"+
			"/generate get three replies\n"+
			"/reset start over\n"+
			"/status API key status",
		local.In(
			local.Rus,
			"/them <текст> сообщение собеседника (можно просто текстом)\n"+
				"/me <текст> ваше сообщение\n"+
				"/remove <n> удалить сообщение n\n"+
				"/history переписка и настройки\n"+
				"/tone выбрать тон, /tone <описание> для своего тона\n"+
				"/length короткие, средние или длинные ответы\n"+
				"/mode ответить на переписку или начать новую\n"+
				"/type сообщение, личное сообщение или письмо\n"+
				"/to <имя> с кем вы общаетесь\n"+
				"/context <текст> что учесть в ответах\n"+
				"/about <текст> что вы хотите сказать, начиная разговор\n"+
				"/generate получить три ответа\n"+
				"/reset начать заново\n"+
				"/status состояние API ключа",
		),
	)
	textUserNoAccess = local.NewPhrase(
		"You are not allowed to use this bot",
		local.In(local.Rus, "У вас нет доступа к этому боту"),
	)
	textServerError = local.NewPhrase(
		"Something wrong with me. Try later",
		local.In(local.Rus, "Что-то пошло не так. Попробуйте позже"),
	)
	textGenerationError = local.NewPhrase(
		"Failed to generate replies: %v",
		local.In(local.Rus, "Не удалось получить ответы: %v"),
	)
	textCommandUnknown = local.NewPhrase(
		"I don't know that command. Try /help",
		local.In(local.Rus, "Я не знаю такой команды. Попробуйте /help"),
	)
	textMessageAdded = local.NewPhrase(
		"Added. The conversation has %d messages. Send /generate when ready.",
		local.In(local.Rus, "Добавлено. В переписке %d сообщений. Отправьте /generate, когда будете готовы."),
	)
	textIntentSaved = local.NewPhrase(
		"Got it. Send /generate to get conversation openers.",
		local.In(local.Rus, "Понял. Отправьте /generate, чтобы получить варианты начала разговора."),
	)
	textEmptyMessage = local.NewPhrase(
		"Write the message after the command, e.g. /them see you at 8?",
		local.In(local.Rus, "Напишите сообщение после команды, например /them увидимся в 8?"),
	)
	textEmptyHistory = local.NewPhrase(
		"Please add at least one message to the conversation",
		local.In(local.Rus, "Добавьте в переписку хотя бы одно сообщение"),
	)
	textEmptyIntent = local.NewPhrase(
		"Please tell me what you want to say: /about <text>",
		local.In(local.Rus, "Расскажите, что вы хотите сказать: /about <текст>"),
	)
	textBadValue = local.NewPhrase(
		"I can't use that value: %v",
		local.In(local.Rus, "Это значение не подходит: %v"),
	)
	textRemoved = local.NewPhrase(
		"Removed message %d.",
		local.In(local.Rus, "Сообщение %d удалено."),
	)
	textRemoveUsage = local.NewPhrase(
		"Use /remove <number> with a number from /history",
		local.In(local.Rus, "Используйте /remove <номер> с номером из /history"),
	)
	textHistoryEmpty = local.NewPhrase(
		"The conversation is empty.",
		local.In(local.Rus, "Переписка пуста."),
	)
	textHistorySettings = local.NewPhrase(
		"Mode: %s, tone: %s, length: %s, type: %s",
		local.In(local.Rus, "Режим: %s, тон: %s, длина: %s, тип: %s"),
	)
	textSenderMe = local.NewPhrase(
		"Me",
		local.In(local.Rus, "Я"),
	)
	textSenderOther = local.NewPhrase(
		"Them",
		local.In(local.Rus, "Собеседник"),
	)
	textSelectTone = local.NewPhrase(
		"Choose a tone",
		local.In(local.Rus, "Выберите тон"),
	)
	textToneSet = local.NewPhrase(
		"Tone: %s",
		local.In(local.Rus, "Тон: %s"),
	)
	textCustomToneHint = local.NewPhrase(
		"Describe the tone after the command, e.g. /tone dry and sarcastic",
		local.In(local.Rus, "Опишите тон после команды, например /tone сухо и с сарказмом"),
	)
	textCustomToneNoAccess = local.NewPhrase(
		"Custom tones are available to premium users only",
		local.In(local.Rus, "Свой тон доступен только премиум пользователям"),
	)
	textSelectLength = local.NewPhrase(
		"Choose a reply length",
		local.In(local.Rus, "Выберите длину ответа"),
	)
	textLengthSet = local.NewPhrase(
		"Length: %s",
		local.In(local.Rus, "Длина: %s"),
	)
	textSelectMode = local.NewPhrase(
		"Reply to a conversation or start a new one?",
		local.In(local.Rus, "Ответить на переписку или начать новую?"),
	)
	textModeSet = local.NewPhrase(
		"Mode: %s",
		local.In(local.Rus, "Режим: %s"),
	)
	textSelectType = local.NewPhrase(
		"What kind of message is it?",
		local.In(local.Rus, "Какой это тип сообщения?"),
	)
	textTypeSet = local.NewPhrase(
		"Message type: %s",
		local.In(local.Rus, "Тип сообщения: %s"),
	)
	textRecipientSet = local.NewPhrase(
		"Talking to: %s",
		local.In(local.Rus, "Собеседник: %s"),
	)
	textRecipientCleared = local.NewPhrase(
		"Recipient cleared",
		local.In(local.Rus, "Имя собеседника удалено"),
	)
	textContextSet = local.NewPhrase(
		"Context saved",
		local.In(local.Rus, "Контекст сохранён"),
	)
	textContextCleared = local.NewPhrase(
		"Context cleared",
		local.In(local.Rus, "Контекст удалён"),
	)
	textReset = local.NewPhrase(
		"Started over. Reply length stays %s.",
		local.In(local.Rus, "Начинаем заново. Длина ответа остаётся %s."),
	)
	textStatus = local.NewPhrase(
		"API key: %s\nModel: %s",
		local.In(local.Rus, "API ключ: %s\nМодель: %s"),
	)
	textBusy = local.NewPhrase(
		"Still working on your previous replies, please wait",
		local.In(local.Rus, "Ещё готовлю предыдущие ответы, подождите"),
	)
	textRepliesHeader = local.NewPhrase(
		"Here are your options, tap and hold one to copy it:",
		local.In(local.Rus, "Вот варианты, нажмите и удерживайте, чтобы скопировать:"),
	)
	textContextTrimmed = local.NewPhrase(
		"Older messages were left out to fit the model's context.",
		local.In(local.Rus, "Старые сообщения не поместились в контекст модели и были пропущены."),
	)

	textsLoading = []local.Phrase{
		local.NewPhrase(
			"I'm generating your replies now...",
			local.In(local.Rus, "Генерирую ответы..."),
		),
		local.NewPhrase(
			"Just a moment while I craft some options...",
			local.In(local.Rus, "Минутку, подбираю варианты..."),
		),
		local.NewPhrase(
			"Working on the perfect response...",
			local.In(local.Rus, "Работаю над идеальным ответом..."),
		),
	}
)
