package domain

// TimelineEventType identifica a origem de um evento na jornada do cliente
type TimelineEventType string

const (
	EventMeeting          TimelineEventType = "MEETING"
	EventActivity         TimelineEventType = "ACTIVITY"
	EventVOC              TimelineEventType = "VOC"
	EventProduct          TimelineEventType = "PRODUCT"
	EventMilestone        TimelineEventType = "MILESTONE"
	EventSuccessPlanStart TimelineEventType = "SUCCESS_PLAN_START"
	EventHealthScore      TimelineEventType = "HEALTH_SCORE"
)

// AllTimelineEventTypes lista todos os tipos na ordem canônica dos filtros
var AllTimelineEventTypes = []TimelineEventType{
	EventMeeting,
	EventActivity,
	EventVOC,
	EventHealthScore,
	EventProduct,
	EventMilestone,
	EventSuccessPlanStart,
}

// TimelineEvent é uma visão derivada: nunca é persistido e é reconstruído por
// inteiro a cada agregação
type TimelineEvent struct {
	ID          string            `json:"id"`
	OriginalID  string            `json:"originalId"`
	Date        string            `json:"date"` // YYYY-MM-DD
	Type        TimelineEventType `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags"`
	Subtitle    string            `json:"subtitle,omitempty"`
}
