package controllers

import (
	"context"
	"time"
)

// HandlerTimeouts 聚合 Handler 的超时策略，Command 用于会产生写入的请求。
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
}

const fallbackDefaultTimeout = 5 * time.Second

// BaseHandler 提供公共的超时能力，供具体 Handler 内嵌复用。
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler 构造基础 Handler，Command 未配置时回退到 Default，二者皆空时使用 5s。
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		timeouts.Default = fallbackDefaultTimeout
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	return &BaseHandler{timeouts: timeouts}
}

// WithCommandTimeout 为写请求包装上下文，返回绑定超时的新 Context 与取消函数。
func (h *BaseHandler) WithCommandTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	return context.WithTimeout(ctx, h.timeouts.Command)
}
