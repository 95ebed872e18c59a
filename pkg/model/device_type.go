package model

import "strings"

//go:generate go run github.com/dmarkham/enumer -type DeviceType -trimprefix DeviceType -transform lower -json -sql -output device_type.gen.go

// DeviceType is the platform a release channel distributes to.
type DeviceType int

const (
	DeviceTypeIOS DeviceType = iota
	DeviceTypeAndroid
)

// DeviceTypeFromLabel maps a human channel label such as "iOS" to its device type.
func DeviceTypeFromLabel(label string) (DeviceType, error) {
	return DeviceTypeString(strings.ToLower(label))
}
