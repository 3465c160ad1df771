package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"
	"strings"

	fx "github.com/dayrise/dayrise.go/pkg/framework"
	mq "github.com/dayrise/dayrise.go/pkg/mqtt"
	"github.com/dayrise/dayrise.go/pkg/telemetry"
)

var (
	mqttURL = "mqtt://localhost:1883/dayrise/"
	device  = "+"
)

func init() {
	if val := os.Getenv("DAYRISE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&device, "device", device, "Device ID to watch, + for all.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mq.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}

	q.Sub(telemetry.MetaTopic(device), func(topic string, payload []byte) {
		if len(payload) == 0 {
			log.Printf("%s: offline", strings.TrimSuffix(topic, "/meta"))
			return
		}
		log.Printf("%s: %s", topic, string(payload))
	})
	q.Sub(telemetry.StateTopic(device), func(topic string, payload []byte) {
		msg, err := telemetry.DecodeState(payload)
		if err != nil {
			log.Printf("%s: bad state: %v", topic, err)
			return
		}
		log.Printf("%s: [%s] %s", topic, msg.Refresh, msg.String())
	})
	q.Sub(telemetry.ErrorTopic(device), func(topic string, payload []byte) {
		msg, err := telemetry.DecodeError(payload)
		if err != nil {
			log.Printf("%s: bad error event: %v", topic, err)
			return
		}
		log.Printf("%s: [%s] %s", topic, msg.Kind, msg.String())
	})

	if err := fx.NewRunner().HandleSignals().Go(fx.NamedRun("mqtt", q)).Wait(); err != nil {
		log.Fatalln(err)
	}
}
