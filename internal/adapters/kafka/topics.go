package kafka

// Topic definitions for Kafka event streaming
const (
	TopicRatingComputed   = "fourcastr.ratings"
	TopicForecastAccepted = "fourcastr.forecasts.accepted"
)
