package router

import (
	"github.com/supby/appbridge2mqtt/internal/types"
)

type MQTTRouter interface {
	PublishReadResponse(path types.AttributePath, msg interface{})
	PublishGatewayMessage(msg interface{}, subtopic string)
	SubscribeOnReadMessage(callback func(msg types.AttributeReadMessage))
}
