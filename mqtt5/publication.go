package mqtt5

import (
	"github.com/axmq/mqttwire/buffer"
	"github.com/axmq/mqttwire/wire"
)

// Publication is a message that can be published to the server but
// has not yet been assigned a packet identifier: the shape shared by
// a CONNECT will message and the payload half of PUBLISH.
type Publication struct {
	TopicName             wire.ByteString
	QoS                   uint8
	Retain                bool
	PayloadIsUTF8         bool
	MessageExpiryInterval uint32
	HasMessageExpiry      bool
	TopicAlias            uint16
	HasTopicAlias         bool
	ResponseTopic         wire.ByteString
	CorrelationData       *buffer.Shared
	UserProperties        []StringPair
	ContentType           wire.ByteString
	Payload               *buffer.Shared
}

var willPropertyBindings = []Binding{
	{ID: WillDelayInterval, Arity: ArityOptional},
	{ID: PayloadFormatIndicator, Arity: ArityOptional},
	{ID: MessageExpiryInterval, Arity: ArityOptional},
	{ID: ContentType, Arity: ArityOptional},
	{ID: ResponseTopic, Arity: ArityOptional},
	{ID: CorrelationData, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
}

var publishPropertyBindings = []Binding{
	{ID: PayloadFormatIndicator, Arity: ArityOptional},
	{ID: MessageExpiryInterval, Arity: ArityOptional},
	{ID: TopicAlias, Arity: ArityOptional},
	{ID: ResponseTopic, Arity: ArityOptional},
	{ID: CorrelationData, Arity: ArityOptional},
	{ID: UserProperty, Arity: ArityList},
	{ID: SubscriptionIdentifier, Arity: ArityList},
	{ID: ContentType, Arity: ArityOptional},
}

func fillPublicationFromProperties(pub *Publication, props *Properties) {
	if p := props.Get(PayloadFormatIndicator); p != nil {
		pub.PayloadIsUTF8 = p.Value.(byte) != 0
	}
	if p := props.Get(MessageExpiryInterval); p != nil {
		pub.MessageExpiryInterval = p.Value.(uint32)
		pub.HasMessageExpiry = true
	}
	if p := props.Get(TopicAlias); p != nil {
		pub.TopicAlias = p.Value.(uint16)
		pub.HasTopicAlias = true
	}
	if p := props.Get(ContentType); p != nil {
		pub.ContentType = p.Value.(wire.ByteString)
	}
	if p := props.Get(ResponseTopic); p != nil {
		pub.ResponseTopic = p.Value.(wire.ByteString)
	}
	if p := props.Get(CorrelationData); p != nil {
		pub.CorrelationData = p.Value.(*buffer.Shared)
	}
	for _, p := range props.GetAll(UserProperty) {
		pub.UserProperties = append(pub.UserProperties, p.Value.(StringPair))
	}
}

func addPublicationProperties(props *Properties, pub Publication) {
	addByteIfTrue(props, PayloadFormatIndicator, pub.PayloadIsUTF8)
	if pub.HasMessageExpiry {
		props.Add(MessageExpiryInterval, pub.MessageExpiryInterval)
	}
	if pub.HasTopicAlias {
		props.Add(TopicAlias, pub.TopicAlias)
	}
	if !pub.ContentType.IsEmpty() {
		props.Add(ContentType, pub.ContentType)
	}
	if !pub.ResponseTopic.IsEmpty() {
		props.Add(ResponseTopic, pub.ResponseTopic)
	}
	if pub.CorrelationData != nil && !pub.CorrelationData.IsEmpty() {
		props.Add(CorrelationData, pub.CorrelationData)
	}
	for _, up := range pub.UserProperties {
		props.Add(UserProperty, up)
	}
}
