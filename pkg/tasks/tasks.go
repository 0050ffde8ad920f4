// Package tasks 定义了通过 Kafka 传递的异步任务载荷。
package tasks

// FAQScore 记录单条 FAQ 的相关度得分，用于检索诊断。
type FAQScore struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
}

// RetrievalDiagnostic 是 FAQ 检索过程产生的一条诊断记录。
// 它由检索服务异步发出，由后台处理器持久化供房东侧分析使用。
type RetrievalDiagnostic struct {
	PropertyID    uint       `json:"propertyId"`
	Query         string     `json:"query"`
	CorpusSize    int        `json:"corpusSize"`
	SelectedCount int        `json:"selectedCount"`
	ElapsedMs     int64      `json:"elapsedMs"`
	TopScores     []FAQScore `json:"topScores"`
}
