package util

import "errors"

var (
	ErrUserNotFound       = errors.New("ユーザーが見つかりません")
	ErrUsernameTaken      = errors.New("このユーザーIDは既に使われています")
	ErrInvalidCredentials = errors.New("ユーザーIDまたはパスワードが間違っています")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrQuestNotFound      = errors.New("quest not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrEmptyPassword      = errors.New("パスワードは空白にできません")
	ErrPasswordMismatch   = errors.New("パスワードが一致しません")
)
