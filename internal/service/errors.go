// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"
	"fmt"
)

// 业务层的哨兵错误，由 handler 映射为对应的 HTTP 状态。
var (
	// ErrNotOwner 表示当前房东不拥有目标资源。
	ErrNotOwner = errors.New("host does not own this resource")
	// ErrFAQLimitReached 表示房源的 FAQ 数量已达到上限。
	ErrFAQLimitReached = errors.New("faq limit reached for this property")
	// ErrQuestionTooLong 表示 FAQ 问题超出长度限制。
	ErrQuestionTooLong = errors.New("faq question exceeds 60 characters")
	// ErrAnswerTooLong 表示 FAQ 答案超出长度限制。
	ErrAnswerTooLong = errors.New("faq answer exceeds 400 characters")
)

// PersistenceError 表示会话或消息的写入失败。
// 它不阻止答案送达访客，但必须在日志和响应中与成功区分开，
// 以便运维侧告警。
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("conversation persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
