package testenv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxAttempts  = 120
	defaultStartupLimit = 60 * time.Second
)

// ErrStartupTimeout 表示被测依赖在轮询上限内始终未就绪。
var ErrStartupTimeout = errors.New("testenv: startup timeout")

var errNotRunning = errors.New("not running yet")

// ReadyCheck 报告依赖当前是否就绪；返回 error 视为本轮未就绪。
type ReadyCheck func(ctx context.Context) (bool, error)

// ReadinessPolicy 描述有界轮询：固定间隔、最大尝试次数与总截止时间，先到者为准。
type ReadinessPolicy struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

// DefaultReadinessPolicy 返回 500ms × 120 次、总计 60s 的轮询策略。
func DefaultReadinessPolicy() ReadinessPolicy {
	return ReadinessPolicy{
		Interval:    defaultPollInterval,
		MaxAttempts: defaultMaxAttempts,
		Timeout:     defaultStartupLimit,
	}
}

func (p ReadinessPolicy) normalize() ReadinessPolicy {
	def := DefaultReadinessPolicy()
	if p.Interval <= 0 {
		p.Interval = def.Interval
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	return p
}

// StartupTimeoutError 记录轮询失败时的上下文，errors.Is(err, ErrStartupTimeout) 为真。
type StartupTimeoutError struct {
	Attempts int
	Elapsed  time.Duration
	Last     error
}

func (e *StartupTimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("%v after %d attempts (%s): %v", ErrStartupTimeout, e.Attempts, e.Elapsed.Round(time.Millisecond), e.Last)
	}
	return fmt.Sprintf("%v after %d attempts (%s)", ErrStartupTimeout, e.Attempts, e.Elapsed.Round(time.Millisecond))
}

// Is 使 StartupTimeoutError 匹配 ErrStartupTimeout。
func (e *StartupTimeoutError) Is(target error) bool {
	return target == ErrStartupTimeout
}

// Unwrap 暴露最后一次探测的错误。
func (e *StartupTimeoutError) Unwrap() error {
	return e.Last
}

// WaitUntilReady 以固定间隔调用 check，直到就绪、达到最大尝试次数或超过 Timeout。
//
// 调用方取消 ctx 时返回 ctx.Err()；其余失败统一返回 *StartupTimeoutError。
// 每次未就绪都会记录一条 "not running yet" 日志。
func WaitUntilReady(ctx context.Context, check ReadyCheck, policy ReadinessPolicy, logger log.Logger) error {
	policy = policy.normalize()
	helper := log.NewHelper(logger)

	pollCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	start := time.Now()
	attempts := 0
	var last error
	operation := func() error {
		attempts++
		ready, err := check(pollCtx)
		switch {
		case err != nil:
			last = err
		case !ready:
			last = errNotRunning
		default:
			return nil
		}
		helper.WithContext(ctx).Infof("not running yet: attempt=%d/%d err=%v", attempts, policy.MaxAttempts, last)
		return last
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Interval), uint64(policy.MaxAttempts-1)),
		pollCtx,
	)
	if err := backoff.Retry(operation, b); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &StartupTimeoutError{Attempts: attempts, Elapsed: time.Since(start), Last: last}
	}
	helper.WithContext(ctx).Infof("ready after %d attempts (%s)", attempts, time.Since(start).Round(time.Millisecond))
	return nil
}
