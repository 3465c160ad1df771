// Package env provides facts about the machine the node runs on.
package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// AppID salts the machine id so it is not exposed as is.
const AppID = "dayrise"

// DeviceIDLength is the number of hex digits kept from the machine id.
const DeviceIDLength = 12

// MachineID retrieves the unique ID identifying the machine.
func MachineID() (string, error) {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeviceID returns a short stable device name. It falls back to the
// host name when the machine id is unavailable.
func DeviceID() string {
	id, err := MachineID()
	if err == nil {
		if len(id) > DeviceIDLength {
			id = id[:DeviceIDLength]
		}
		return id
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, herr := os.Hostname(); herr == nil && host != "" {
		return host
	}
	return AppID
}
