package domain

const (
	WarningCodeUnmeasurableClaims = "UNMEASURABLE_CLAIMS"
	WarningCodeFeedHitLimit       = "FEED_HIT_LIMIT"
)

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
