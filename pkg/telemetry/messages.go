package telemetry

import (
	"github.com/golang/protobuf/proto"
)

// DisplayState is published after each cycle that changed the model.
type DisplayState struct {
	Device      string `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Mode        string `protobuf:"bytes,2,opt,name=mode,proto3" json:"mode,omitempty"`
	CurrentTime string `protobuf:"bytes,3,opt,name=current_time,json=currentTime,proto3" json:"current_time,omitempty"`
	AlarmTime   string `protobuf:"bytes,4,opt,name=alarm_time,json=alarmTime,proto3" json:"alarm_time,omitempty"`
	AlarmActive bool   `protobuf:"varint,5,opt,name=alarm_active,json=alarmActive,proto3" json:"alarm_active,omitempty"`
	Refresh     string `protobuf:"bytes,6,opt,name=refresh,proto3" json:"refresh,omitempty"`
	Cycle       uint64 `protobuf:"varint,7,opt,name=cycle,proto3" json:"cycle,omitempty"`
}

func (m *DisplayState) Reset()         { *m = DisplayState{} }
func (m *DisplayState) String() string { return proto.CompactTextString(m) }
func (*DisplayState) ProtoMessage()    {}

// ErrorEvent is published for error reports and rejected records.
type ErrorEvent struct {
	Device  string   `protobuf:"bytes,1,opt,name=device,proto3" json:"device,omitempty"`
	Kind    string   `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
	Record  string   `protobuf:"bytes,3,opt,name=record,proto3" json:"record,omitempty"`
	Payload []string `protobuf:"bytes,4,rep,name=payload,proto3" json:"payload,omitempty"`
	Reason  string   `protobuf:"bytes,5,opt,name=reason,proto3" json:"reason,omitempty"`
}

func (m *ErrorEvent) Reset()         { *m = ErrorEvent{} }
func (m *ErrorEvent) String() string { return proto.CompactTextString(m) }
func (*ErrorEvent) ProtoMessage()    {}

// Error event kinds.
const (
	KindReport   = "report"
	KindRejected = "rejected"
)

// NodeMeta describes the node. It is published as retained JSON.
type NodeMeta struct {
	Device   string   `json:"device"`
	Driver   string   `json:"driver"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Rotation int      `json:"rotation"`
	Links    []string `json:"links,omitempty"`
}

// DecodeState decodes a DisplayState payload.
func DecodeState(data []byte) (*DisplayState, error) {
	var m DisplayState
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeError decodes an ErrorEvent payload.
func DecodeError(data []byte) (*ErrorEvent, error) {
	var m ErrorEvent
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
