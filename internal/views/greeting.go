// Package views 将 Service 层返回的 VO 渲染为对外响应，保持 Controller 层的精简。
package views

import "github.com/bionicotaku/lingo-services-greeting/internal/models/vo"

// HelloText 将 Greeting 渲染为 /hello 的纯文本响应体，nil 时返回空串。
func HelloText(greeting *vo.Greeting) string {
	if greeting == nil {
		return ""
	}
	return greeting.Message
}
