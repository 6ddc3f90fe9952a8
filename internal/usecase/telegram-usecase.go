package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/iamvkosarev/reply-genie-bot/config"
	"github.com/iamvkosarev/reply-genie-bot/internal/model"
	"github.com/iamvkosarev/reply-genie-bot/pkg/local"
	"github.com/sourcegraph/conc"
)

const (
	CommandStart    = "start"
	CommandHelp     = "help"
	CommandMe       = "me"
	CommandThem     = "them"
	CommandRemove   = "remove"
	CommandHistory  = "history"
	CommandTone     = "tone"
	CommandLength   = "length"
	CommandMode     = "mode"
	CommandType     = "type"
	CommandTo       = "to"
	CommandContext  = "context"
	CommandAbout    = "about"
	CommandGenerate = "generate"
	CommandReset    = "reset"
	CommandStatus   = "status"

	callbackSeparator = ":"
	maxButtonsInRow   = 3
)

type Bot interface {
	Send(c api.Chattable) (api.Message, error)
	Request(c api.Chattable) (*api.APIResponse, error)
	GetUpdatesChan(config api.UpdateConfig) api.UpdatesChannel
	StopReceivingUpdates()
}

type TelegramUsecaseDeps struct {
	User   *UserUsecase
	Draft  *DraftUsecase
	Bot    Bot
	Logger *slog.Logger
}

type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg       config.Telegram
	openAICfg config.OpenAI

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// incoming is a message or a button press reduced to what the handlers need.
type incoming struct {
	chatID  int64
	lang    local.Language
	command string
	args    string
	text    string
}

type keyboardOption struct {
	label string
	value string
}

func NewTelegramUsecase(
	cfg config.Telegram, openAICfg config.OpenAI, deps TelegramUsecaseDeps,
) (*TelegramUsecase, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{Command: CommandGenerate, Description: "Get three reply suggestions"},
				{Command: CommandThem, Description: "Add a message from the other person"},
				{Command: CommandMe, Description: "Add a message you sent"},
				{Command: CommandHistory, Description: "Show the conversation and settings"},
				{Command: CommandTone, Description: "Choose a tone"},
				{Command: CommandLength, Description: "Choose a reply length"},
				{Command: CommandMode, Description: "Reply or start a conversation"},
				{Command: CommandType, Description: "Text, direct message or email"},
				{Command: CommandReset, Description: "Start over"},
				{Command: CommandHelp, Description: "Get help"},
			}...,
		),
	)
	if err != nil {
		return nil, err
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		openAICfg:           openAICfg,
		inFlight:            make(map[int64]struct{}),
	}, nil
}

// Run polls for updates until ctx is done. Every update is handled in its own
// goroutine so a slow generation does not block other chats.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = 60

	updates := t.Bot.GetUpdatesChan(u)

	wg := conc.NewWaitGroup()
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			wg.Go(func() {
				t.handleUpdate(ctx, update)
			})
		}
	}
}

func (t *TelegramUsecase) handleUpdate(ctx context.Context, update api.Update) {
	if update.Message != nil {
		if err := t.handleMessage(ctx, update.Message); err != nil {
			t.Logger.Error("error handling message", "error", err)
		}
	}
	if update.CallbackQuery != nil {
		if err := t.handleCallbackQuery(ctx, update.CallbackQuery); err != nil {
			t.Logger.Error("error handling callback query", "error", err)
		}
	}
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, msg *api.Message) error {
	in := incoming{
		chatID: msg.Chat.ID,
		lang:   local.Eng,
	}
	if msg.From != nil {
		in.lang = local.ParseLanguage(msg.From.LanguageCode)
	}
	if msg.IsCommand() {
		in.command = msg.Command()
		in.args = strings.TrimSpace(msg.CommandArguments())
	} else {
		in.text = msg.Text
	}
	return t.handle(ctx, in)
}

func (t *TelegramUsecase) handleCallbackQuery(ctx context.Context, query *api.CallbackQuery) error {
	callback := api.NewCallback(query.ID, "")
	if _, err := t.Bot.Request(callback); err != nil {
		return fmt.Errorf("failed to request callback: %w", err)
	}
	if query.Message == nil {
		return fmt.Errorf("callback query %s has no message", query.ID)
	}

	in := incoming{
		chatID: query.Message.Chat.ID,
		lang:   local.Eng,
	}
	if query.From != nil {
		in.lang = local.ParseLanguage(query.From.LanguageCode)
	}
	command, value, ok := strings.Cut(query.Data, callbackSeparator)
	if !ok {
		return fmt.Errorf("unexpected callback data %q", query.Data)
	}
	in.command = command
	in.args = value
	return t.handle(ctx, in)
}

func (t *TelegramUsecase) handle(ctx context.Context, in incoming) error {
	if !t.User.HasAccess(in.chatID) {
		t.sendMessageAndHandleErr(in.chatID, textUserNoAccess.Text(in.lang))
		return nil
	}

	draft, err := t.User.DraftForTelegramUser(ctx, in.chatID)
	if err != nil {
		t.sendMessageAndHandleErr(in.chatID, textServerError.Text(in.lang))
		return fmt.Errorf("failed to get draft for telegram user: %w", err)
	}

	if in.command == "" {
		return t.handleText(ctx, in, draft)
	}

	switch in.command {
	case CommandStart:
		t.sendMessageAndHandleErr(in.chatID, textStart.Text(in.lang))
	case CommandHelp:
		t.sendMessageAndHandleErr(in.chatID, textHelp.Text(in.lang))
	case CommandThem:
		return t.addMessage(ctx, in, draft.DraftID, model.SenderOther, in.args)
	case CommandMe:
		return t.addMessage(ctx, in, draft.DraftID, model.SenderMe, in.args)
	case CommandRemove:
		return t.removeMessage(ctx, in, draft.DraftID)
	case CommandHistory:
		t.sendMessageAndHandleErr(in.chatID, renderDraft(draft, in.lang))
	case CommandTone:
		return t.selectTone(ctx, in, draft.DraftID)
	case CommandLength:
		return t.selectLength(ctx, in, draft.DraftID)
	case CommandMode:
		return t.selectMode(ctx, in, draft.DraftID)
	case CommandType:
		return t.selectMessageType(ctx, in, draft.DraftID)
	case CommandTo:
		if _, err = t.Draft.SetRecipient(ctx, draft.DraftID, in.args); err != nil {
			return t.respondError(in, err)
		}
		if in.args == "" {
			t.sendMessageAndHandleErr(in.chatID, textRecipientCleared.Text(in.lang))
		} else {
			t.sendMessageAndHandleErr(in.chatID, textRecipientSet.Format(in.lang, in.args))
		}
	case CommandContext:
		if _, err = t.Draft.SetAdditionalContext(ctx, draft.DraftID, in.args); err != nil {
			return t.respondError(in, err)
		}
		if in.args == "" {
			t.sendMessageAndHandleErr(in.chatID, textContextCleared.Text(in.lang))
		} else {
			t.sendMessageAndHandleErr(in.chatID, textContextSet.Text(in.lang))
		}
	case CommandAbout:
		if in.args == "" {
			t.sendMessageAndHandleErr(in.chatID, textEmptyIntent.Text(in.lang))
			return nil
		}
		return t.setIntent(ctx, in, draft.DraftID, in.args)
	case CommandGenerate:
		return t.generate(ctx, in, draft.DraftID)
	case CommandReset:
		if draft, err = t.Draft.Reset(ctx, draft.DraftID); err != nil {
			return t.respondError(in, err)
		}
		t.sendMessageAndHandleErr(in.chatID, textReset.Format(in.lang, draft.Length))
	case CommandStatus:
		t.sendMessageAndHandleErr(
			in.chatID, textStatus.Format(in.lang, t.openAICfg.KeyStatus(), t.openAICfg.OpenAIModel),
		)
	default:
		t.sendMessageAndHandleErr(in.chatID, textCommandUnknown.Text(in.lang))
	}
	return nil
}

// handleText treats plain text as the other person's message, or as the
// intent when starting a conversation.
func (t *TelegramUsecase) handleText(ctx context.Context, in incoming, draft model.Draft) error {
	if draft.Mode == model.ModeStart {
		if strings.TrimSpace(in.text) == "" {
			t.sendMessageAndHandleErr(in.chatID, textEmptyIntent.Text(in.lang))
			return nil
		}
		return t.setIntent(ctx, in, draft.DraftID, in.text)
	}
	return t.addMessage(ctx, in, draft.DraftID, model.SenderOther, in.text)
}

func (t *TelegramUsecase) addMessage(
	ctx context.Context, in incoming, draftID uuid.UUID, sender model.Sender, content string,
) error {
	draft, err := t.Draft.AddMessage(ctx, draftID, sender, content)
	if err != nil {
		return t.respondError(in, err)
	}
	t.sendMessageAndHandleErr(in.chatID, textMessageAdded.Format(in.lang, len(draft.History)))
	return nil
}

func (t *TelegramUsecase) removeMessage(ctx context.Context, in incoming, draftID uuid.UUID) error {
	number, err := strconv.Atoi(in.args)
	if err != nil {
		t.sendMessageAndHandleErr(in.chatID, textRemoveUsage.Text(in.lang))
		return nil
	}
	if _, err = t.Draft.RemoveMessage(ctx, draftID, number-1); err != nil {
		return t.respondError(in, err)
	}
	t.sendMessageAndHandleErr(in.chatID, textRemoved.Format(in.lang, number))
	return nil
}

func (t *TelegramUsecase) setIntent(ctx context.Context, in incoming, draftID uuid.UUID, intent string) error {
	if _, err := t.Draft.SetIntent(ctx, draftID, intent); err != nil {
		return t.respondError(in, err)
	}
	t.sendMessageAndHandleErr(in.chatID, textIntentSaved.Text(in.lang))
	return nil
}

func (t *TelegramUsecase) selectTone(ctx context.Context, in incoming, draftID uuid.UUID) error {
	if in.args == "" {
		options := make([]keyboardOption, 0, len(model.Tones))
		for _, tone := range model.Tones {
			options = append(options, keyboardOption{label: tone.Label(), value: string(tone)})
		}
		return t.sendSelectKeyboard(in.chatID, textSelectTone.Text(in.lang), CommandTone, options)
	}

	tone, err := model.ParseTone(in.args)
	customTone := ""
	if err != nil {
		// Anything that is not a preset tone name describes a custom tone.
		tone, customTone = model.ToneCustom, in.args
	}
	if tone == model.ToneCustom {
		if !t.User.CanUseCustomTone(in.chatID) {
			t.sendMessageAndHandleErr(in.chatID, textCustomToneNoAccess.Text(in.lang))
			return nil
		}
		if customTone == "" {
			t.sendMessageAndHandleErr(in.chatID, textCustomToneHint.Text(in.lang))
			return nil
		}
	}

	if _, err = t.Draft.SetTone(ctx, draftID, tone, customTone); err != nil {
		return t.respondError(in, err)
	}
	label := tone.Label()
	if tone == model.ToneCustom {
		label = customTone
	}
	t.sendMessageAndHandleErr(in.chatID, textToneSet.Format(in.lang, label))
	return nil
}

func (t *TelegramUsecase) selectLength(ctx context.Context, in incoming, draftID uuid.UUID) error {
	if in.args == "" {
		options := make([]keyboardOption, 0, len(model.Lengths))
		for _, length := range model.Lengths {
			options = append(options, keyboardOption{label: string(length), value: string(length)})
		}
		return t.sendSelectKeyboard(in.chatID, textSelectLength.Text(in.lang), CommandLength, options)
	}
	length, err := model.ParseLength(in.args)
	if err != nil {
		return t.respondError(in, err)
	}
	if _, err = t.Draft.SetLength(ctx, draftID, length); err != nil {
		return t.respondError(in, err)
	}
	t.sendMessageAndHandleErr(in.chatID, textLengthSet.Format(in.lang, length))
	return nil
}

func (t *TelegramUsecase) selectMode(ctx context.Context, in incoming, draftID uuid.UUID) error {
	if in.args == "" {
		options := []keyboardOption{
			{label: string(model.ModeReply), value: string(model.ModeReply)},
			{label: string(model.ModeStart), value: string(model.ModeStart)},
		}
		return t.sendSelectKeyboard(in.chatID, textSelectMode.Text(in.lang), CommandMode, options)
	}
	mode, err := model.ParseMode(in.args)
	if err != nil {
		return t.respondError(in, err)
	}
	if _, err = t.Draft.SetMode(ctx, draftID, mode); err != nil {
		return t.respondError(in, err)
	}
	t.sendMessageAndHandleErr(in.chatID, textModeSet.Format(in.lang, mode))
	return nil
}

func (t *TelegramUsecase) selectMessageType(ctx context.Context, in incoming, draftID uuid.UUID) error {
	if in.args == "" {
		options := make([]keyboardOption, 0, len(model.MessageTypes))
		for _, messageType := range model.MessageTypes {
			options = append(options, keyboardOption{label: messageType.Noun(), value: string(messageType)})
		}
		return t.sendSelectKeyboard(in.chatID, textSelectType.Text(in.lang), CommandType, options)
	}
	messageType, err := model.ParseMessageType(in.args)
	if err != nil {
		return t.respondError(in, err)
	}
	if _, err = t.Draft.SetMessageType(ctx, draftID, messageType); err != nil {
		return t.respondError(in, err)
	}
	t.sendMessageAndHandleErr(in.chatID, textTypeSet.Format(in.lang, messageType.Noun()))
	return nil
}

// generate shows a loading message, runs the pipeline next to the typing
// indicator and then sends every reply as its own message.
func (t *TelegramUsecase) generate(ctx context.Context, in incoming, draftID uuid.UUID) error {
	if !t.acquire(in.chatID) {
		t.sendMessageAndHandleErr(in.chatID, textBusy.Text(in.lang))
		return nil
	}
	defer t.release(in.chatID)

	loadingMsg := t.sendMessageAndHandleErr(in.chatID, loadingText(in.lang))

	var result GenerationResult
	var genErr error
	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			if _, err := t.Bot.Request(api.NewChatAction(in.chatID, api.ChatTyping)); err != nil {
				t.Logger.Warn("failed to send chat action to bot", "error", err)
			}
		},
	)
	wg.Go(
		func() {
			_, result, genErr = t.Draft.Generate(ctx, draftID)
		},
	)
	wg.Wait()

	if genErr != nil {
		if model.IsValidationError(genErr) {
			t.replaceMessage(in.chatID, loadingMsg.MessageID, validationText(genErr, in.lang))
			return nil
		}
		t.replaceMessage(in.chatID, loadingMsg.MessageID, textGenerationError.Format(in.lang, genErr))
		return fmt.Errorf("failed to generate replies: %w", genErr)
	}

	header := textRepliesHeader.Text(in.lang)
	if result.ContextTrimmed {
		header = textContextTrimmed.Text(in.lang) + "\n" + header
	}
	t.replaceMessage(in.chatID, loadingMsg.MessageID, header)
	for _, reply := range result.Replies {
		t.sendMessageAndHandleErr(in.chatID, reply)
	}
	return nil
}

func (t *TelegramUsecase) acquire(chatID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.inFlight[chatID]; ok {
		return false
	}
	t.inFlight[chatID] = struct{}{}
	return true
}

func (t *TelegramUsecase) release(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, chatID)
}

// respondError answers validation errors in the chat and hands everything
// else back to the caller.
func (t *TelegramUsecase) respondError(in incoming, err error) error {
	if model.IsValidationError(err) {
		t.sendMessageAndHandleErr(in.chatID, validationText(err, in.lang))
		return nil
	}
	t.sendMessageAndHandleErr(in.chatID, textServerError.Text(in.lang))
	return err
}

func validationText(err error, lang local.Language) string {
	switch {
	case errors.Is(err, model.ErrEmptyHistory):
		return textEmptyHistory.Text(lang)
	case errors.Is(err, model.ErrEmptyIntent):
		return textEmptyIntent.Text(lang)
	case errors.Is(err, model.ErrCustomToneRequired):
		return textCustomToneHint.Text(lang)
	case errors.Is(err, model.ErrEmptyMessage):
		return textEmptyMessage.Text(lang)
	case errors.Is(err, model.ErrMessageIndexOutOfRange):
		return textRemoveUsage.Text(lang)
	default:
		return textBadValue.Format(lang, err)
	}
}

func loadingText(lang local.Language) string {
	return textsLoading[rand.IntN(len(textsLoading))].Text(lang)
}

func renderDraft(draft model.Draft, lang local.Language) string {
	result := strings.Builder{}
	if len(draft.History) == 0 {
		result.WriteString(textHistoryEmpty.Text(lang))
		result.WriteString("\n")
	}
	for i, msg := range draft.History {
		sender := textSenderOther.Text(lang)
		if msg.Sender == model.SenderMe {
			sender = textSenderMe.Text(lang)
		}
		result.WriteString(fmt.Sprintf("%v) %s: %s\n", i+1, sender, msg.Content))
	}
	tone := draft.Tone.Label()
	if draft.Tone == model.ToneCustom && draft.CustomTone != "" {
		tone = fmt.Sprintf("%s (%s)", tone, draft.CustomTone)
	}
	result.WriteString("\n")
	result.WriteString(textHistorySettings.Format(lang, draft.Mode, tone, draft.Length, draft.MessageType.Noun()))
	return result.String()
}

func (t *TelegramUsecase) sendSelectKeyboard(
	chatID int64, text string, command string, options []keyboardOption,
) error {
	msg := api.NewMessage(chatID, text)
	inlineRows := make([][]api.InlineKeyboardButton, 0)
	inlineButtons := make([]api.InlineKeyboardButton, 0)
	for _, option := range options {
		if len(inlineButtons) >= maxButtonsInRow {
			inlineRows = append(inlineRows, inlineButtons)
			inlineButtons = make([]api.InlineKeyboardButton, 0)
		}
		inlineButtons = append(
			inlineButtons, api.NewInlineKeyboardButtonData(option.label, command+callbackSeparator+option.value),
		)
	}
	inlineRows = append(inlineRows, inlineButtons)
	msg.ReplyMarkup = api.NewInlineKeyboardMarkup(inlineRows...)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to bot: %w", err)
	}
	return nil
}

// replaceMessage edits the message when it was sent, otherwise sends text as
// a new one.
func (t *TelegramUsecase) replaceMessage(chatID int64, messageID int, text string) {
	if messageID == 0 {
		t.sendMessageAndHandleErr(chatID, text)
		return
	}
	if _, err := t.sendEditMessage(chatID, messageID, text); err != nil {
		t.Logger.Warn("failed to send edit message to bot", "error", err)
	}
}

func (t *TelegramUsecase) sendMessageAndHandleErr(chatID int64, message string) api.Message {
	msg, err := t.sendMessage(chatID, message)
	if err != nil {
		t.Logger.Warn("failed to send new message to bot", "error", err)
	}
	return msg
}

func (t *TelegramUsecase) sendMessage(chatID int64, message string) (api.Message, error) {
	return t.sendToBot(api.NewMessage(chatID, message))
}

func (t *TelegramUsecase) sendEditMessage(chatID int64, previousMsgID int, message string) (api.Message, error) {
	return t.sendToBot(api.NewEditMessageText(chatID, previousMsgID, message))
}

func (t *TelegramUsecase) sendToBot(c api.Chattable) (api.Message, error) {
	return t.Bot.Send(c)
}
