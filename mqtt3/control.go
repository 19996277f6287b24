package mqtt3

// PingReq is the 3.12 PINGREQ packet: fixed header only, no variable
// header or payload.
type PingReq struct{}

// PingResp is the 3.13 PINGRESP packet: fixed header only.
type PingResp struct{}

// Disconnect is the 3.14 DISCONNECT packet: fixed header only.
type Disconnect struct{}
