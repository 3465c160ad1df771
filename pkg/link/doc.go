// Package link turns byte streams from the master into records.
//
// Bytes arrive from background readers (UART, MQTT, websocket) and are
// accumulated by a Framer. The display loop polls a Source once per cycle
// and never blocks on it.
package link
