package nats

import (
	"fmt"
)

const (
	TelemetrySubject     = "telemetry.>"
	PlayerActionSubjects = "player.*.action"
)

func GetDealSubject(tableID string) string {
	return fmt.Sprintf("deal.%s", tableID)
}

func GetHandEventSubject(handID string) string {
	return fmt.Sprintf("hand.%s.event", handID)
}

func GetPlayerActionSubject(handID string) string {
	return fmt.Sprintf("player.%s.action", handID)
}
