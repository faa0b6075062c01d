// fault-sim publishes a synthetic fault batch to the gateway data topic,
// formatted the way the PLC gateway sends it. Handy for exercising the
// fan-out and correlation paths against a live broker.
package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/plcwatch/go-plc-alerts/internal/config"
	"github.com/plcwatch/go-plc-alerts/internal/logging"
	"github.com/plcwatch/go-plc-alerts/internal/mqtt"
)

func main() {
	codes := flag.String("codes", "", "comma-separated fault codes to report abnormal")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	broker, err := mqtt.NewClient(mqtt.Config{
		BrokerURL: cfg.MQTT.BrokerURL,
		ClientID:  cfg.MQTT.ClientID + "-sim",
		Username:  cfg.MQTT.Username,
		Password:  cfg.MQTT.Password,
		QoS:       byte(cfg.MQTT.QoS),
	})
	if err != nil {
		logging.Fatalf("Failed to connect to MQTT broker: %v", err)
	}
	defer broker.Disconnect()

	var errorCodes []string
	if *codes != "" {
		errorCodes = strings.Split(*codes, ",")
	}

	// Same local-zone fixed-width timestamp the gateway emits.
	loc := time.FixedZone("plc", cfg.PLC.UTCOffsetHours*3600)
	batch := map[string]any{
		"timestamp": time.Now().In(loc).Format("20060102 15:04:05.000000"),
		"error":     errorCodes,
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		logging.Fatalf("Failed to encode batch: %v", err)
	}
	if err := broker.Publish(cfg.MQTT.DataTopic, payload); err != nil {
		logging.Fatalf("Failed to publish batch: %v", err)
	}

	slog.Info("fault batch published", "topic", cfg.MQTT.DataTopic, "codes", errorCodes)
}
