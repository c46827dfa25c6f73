package domain

import "errors"

var (
	ErrSignatureInvalid = errors.New("invalid signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
	ErrCompletionFailed = errors.New("completion failed")
	ErrEmptyCompletion  = errors.New("completion returned no text")
	ErrReplyFailed      = errors.New("failed to send reply")
)

const (
	DefaultModel        = "claude-sonnet-4-20250514"
	DefaultMaxTokens    = 1000
	DefaultSystemPrompt = "คุณคือผู้ช่วย AI ที่เป็นมิตรและตอบคำถามเป็นภาษาไทย"
	DefaultFallback     = "ขออภัยครับ เกิดข้อผิดพลาดในการประมวลผล กรุณาลองใหม่อีกครั้ง 🙏"
	DefaultPort         = 3000
	LivenessText        = "LINE Bot is running!"
)
