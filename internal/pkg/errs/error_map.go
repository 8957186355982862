/*
Package errs provides the application's custom error type and error code constants.

This file maps every error code to its CustomError template. User-facing
messages are in Chinese, matching the product's interface language.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "请求参数无效"},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "不支持的请求格式"},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "不支持的请求格式"},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "请求包含多余的数据"},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "请求过于频繁，请稍后再试", Status: http.StatusTooManyRequests},

	// 2xxx: Chat Room Business Logic Errors
	ErrInvalidName:          {Code: ErrInvalidName, Message: "用户名不能为空"},
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "请先加入聊天室"},
	ErrSessionKicked:        {Code: ErrSessionKicked, Message: "您的账号在其他地方登录"},
	ErrResponderUnavailable: {Code: ErrResponderUnavailable, Message: "AI助手暂时无法响应，请稍后再试"},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "服务器内部错误，请稍后再试", Status: http.StatusInternalServerError},
}
