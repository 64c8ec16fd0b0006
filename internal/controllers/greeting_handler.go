// Package controllers 提供传输层 Handler，负责处理外部请求并调用业务层。
package controllers

import (
	"context"
	stdhttp "net/http"

	"github.com/bionicotaku/lingo-services-greeting/internal/models/vo"
	"github.com/bionicotaku/lingo-services-greeting/internal/services"
	"github.com/bionicotaku/lingo-services-greeting/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// OperationGreetingHello 是 GET /hello 的 operation 名称，供中间件（日志、指标）匹配。
const OperationGreetingHello = "/greeting.v1.Greeting/Hello"

// GreetingHandler 是 Greeting 服务的 HTTP 传输层处理器。
type GreetingHandler struct {
	*BaseHandler

	svc *services.GreetingService
}

// NewGreetingHandler 构造 HTTP Handler。
func NewGreetingHandler(svc *services.GreetingService, base *BaseHandler) *GreetingHandler {
	return &GreetingHandler{BaseHandler: base, svc: svc}
}

// Hello 处理 GET /hello：写入一条问候记录，并以 text/plain 返回其 message。
// 业务错误原样返回，由 Kratos 的 ErrorEncoder 映射为 HTTP 状态码。
func (h *GreetingHandler) Hello(ctx khttp.Context) error {
	khttp.SetOperation(ctx, OperationGreetingHello)
	handler := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
		timeoutCtx, cancel := h.WithCommandTimeout(c)
		defer cancel()
		return h.svc.Hello(timeoutCtx)
	})
	out, err := handler(ctx, nil)
	if err != nil {
		return err
	}
	greeting, ok := out.(*vo.Greeting)
	if !ok {
		return errors.InternalServer(services.ReasonGreetingPersistFailed, "unexpected handler result")
	}
	return ctx.String(stdhttp.StatusOK, views.HelloText(greeting))
}

// RegisterGreetingHTTPServer 在 Kratos HTTP Server 上注册 Greeting 路由。
func RegisterGreetingHTTPServer(s *khttp.Server, h *GreetingHandler) {
	r := s.Route("/")
	r.GET("/hello", h.Hello)
}
