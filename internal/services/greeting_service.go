package services

import (
	"context"
	"fmt"

	"github.com/bionicotaku/lingo-services-greeting/internal/models/po"
	"github.com/bionicotaku/lingo-services-greeting/internal/models/vo"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// HelloMessage 是 /hello 写入并返回的固定文本，不做任何裁剪或大小写变换。
const HelloMessage = "hello !"

const (
	// ReasonGreetingPersistFailed 表示问候记录写入失败。
	ReasonGreetingPersistFailed = "GREETING_PERSIST_FAILED"
	// ReasonGreetingTimeout 表示写入事务超过请求截止时间。
	ReasonGreetingTimeout = "GREETING_TIMEOUT"
)

// GreetingRepo 定义问候记录的持久化行为。
type GreetingRepo interface {
	Create(ctx context.Context, sess txmanager.Session, message string) (*po.Greeting, error)
}

// GreetingService 封装 Hello 用例：每次调用在单个事务内写入一条记录。
type GreetingService struct {
	repo      GreetingRepo
	txManager txmanager.Manager
	log       *log.Helper
}

// NewGreetingService 构造问候服务。
func NewGreetingService(repo GreetingRepo, tx txmanager.Manager, logger log.Logger) *GreetingService {
	return &GreetingService{
		repo:      repo,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// Hello 在事务内持久化一条 message 为 HelloMessage 的记录。
//
// 事务边界只覆盖这一次插入：插入成功才提交，否则回滚。失败不重试，
// 统一映射为 5xx 的 Kratos 错误交给传输层编码。
func (s *GreetingService) Hello(ctx context.Context) (*vo.Greeting, error) {
	var saved *po.Greeting
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		greeting, repoErr := s.repo.Create(txCtx, sess, HelloMessage)
		if repoErr != nil {
			return repoErr
		}
		saved = greeting
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.WithContext(ctx).Warnf("hello timeout: err=%v", err)
			return nil, errors.GatewayTimeout(ReasonGreetingTimeout, "persist greeting timeout").WithCause(err)
		}
		s.log.WithContext(ctx).Errorf("hello failed: err=%v", err)
		return nil, errors.InternalServer(ReasonGreetingPersistFailed, "failed to persist greeting").WithCause(fmt.Errorf("persist greeting: %w", err))
	}
	if saved == nil {
		return nil, errors.InternalServer(ReasonGreetingPersistFailed, "greeting not returned by repository")
	}

	s.log.WithContext(ctx).Debugf("Hello: greeting_id=%d", saved.ID)
	return &vo.Greeting{ID: saved.ID, Message: saved.Message}, nil
}
