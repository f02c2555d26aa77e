package insights

import "errors"

var (
	// ErrEmptyIdentifier is returned for blank input before any I/O.
	ErrEmptyIdentifier = errors.New("identifier is required")
	// ErrMissingAPIKey is returned when live generation is needed but no
	// generator is configured.
	ErrMissingAPIKey = errors.New("gemini api key not configured")
	// ErrRateLimited is returned when the model provider answers 429.
	ErrRateLimited = errors.New("model provider rate limited")
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("AI応答が空です")
	// ErrUnparseable is returned when the response contains no JSON object.
	ErrUnparseable = errors.New("AI応答の解析に失敗しました")
	// ErrInvalidResponse is returned when required fields are missing.
	ErrInvalidResponse = errors.New("AI応答の形式が不正です")
)

// User-facing messages. Provider and parse details stay in the logs.
const (
	MessageEmptyIdentifier = "会社名または証券コードを入力してください"
	MessageMissingAPIKey   = "Gemini APIキーが設定されていません。環境変数 GEMINI_API_KEY を設定してください。"
	MessageRateLimited     = "AIの利用上限に達しました。しばらく待ってから再度お試しください。"
	MessageAnalysisFailed  = "分析中にエラーが発生しました。もう一度お試しください。"
)

// UserMessage maps a pipeline error to the message shown to the caller.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyIdentifier):
		return MessageEmptyIdentifier
	case errors.Is(err, ErrMissingAPIKey):
		return MessageMissingAPIKey
	case errors.Is(err, ErrRateLimited):
		return MessageRateLimited
	default:
		return MessageAnalysisFailed
	}
}
