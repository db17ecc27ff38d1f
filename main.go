package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/kwv/maptransform/transform"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "map.yaml", "Path to the map transform document (ref_map/robot_map YAML)")

	queryPoint = flag.String("query", "", "Transform a point given as \"x,y\" and print the result")
	direction  = flag.String("direction", "to-ref", "Query direction: to-ref or to-robot")

	previewFile = flag.String("preview", "", "Render a static mesh preview to this file")
	previewFmt  = flag.String("preview-format", "svg", "Mesh preview format: svg or png")

	geojsonFile  = flag.String("geojson", "", "Export the mesh as a GeoJSON FeatureCollection to this file")
	geojsonFrame = flag.String("frame", "ref", "Frame for --geojson correspondence points and triangles: ref or robot (--preview always draws the ref frame)")

	relayMode          = flag.Bool("relay", false, "Run the MQTT live-position relay and block until interrupted")
	mqttBroker         = flag.String("mqtt-broker", "", "MQTT broker URI for --relay, e.g. tcp://localhost:1883")
	mqttClientID       = flag.String("mqtt-client-id", "", "MQTT client ID for --relay")
	mqttUsername       = flag.String("mqtt-username", "", "MQTT username for --relay")
	mqttPassword       = flag.String("mqtt-password", "", "MQTT password for --relay")
	mqttSubscribeTopic = flag.String("mqtt-subscribe", "", "Robot-frame position topic to subscribe to for --relay")
	mqttPublishTopic   = flag.String("mqtt-publish", "", "Reference-frame position topic to publish to for --relay")
)

func main() {
	flag.Parse()
	fmt.Fprintf(os.Stderr, "maptransform version: %s\n", Version)

	app := NewApp()
	app.DocumentFile = *configFile
	app.Frame = *geojsonFrame
	app.PreviewFile = *previewFile
	app.PreviewFmt = *previewFmt
	app.GeoJSONFile = *geojsonFile
	app.MQTTBroker = *mqttBroker
	app.MQTTClientID = *mqttClientID
	app.MQTTUsername = *mqttUsername
	app.MQTTPassword = *mqttPassword
	app.MQTTSubscribeTopic = *mqttSubscribeTopic
	app.MQTTPublishTopic = *mqttPublishTopic

	if err := app.LoadDocument(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(exitCodeFor(err))
	}

	ran := false

	if *queryPoint != "" {
		ran = true
		app.Frame = *direction
		if err := app.RunQuery(*queryPoint); err != nil {
			log.Printf("error: %v", err)
			os.Exit(exitCodeFor(err))
		}
	}

	if *previewFile != "" {
		ran = true
		app.Frame = *geojsonFrame
		if err := app.RunPreview(); err != nil {
			log.Printf("error: %v", err)
			os.Exit(exitCodeFor(err))
		}
	}

	if *geojsonFile != "" {
		ran = true
		app.Frame = *geojsonFrame
		if err := app.RunGeoJSON(); err != nil {
			log.Printf("error: %v", err)
			os.Exit(exitCodeFor(err))
		}
	}

	if *relayMode {
		ran = true
		if err := app.RunRelay(); err != nil {
			log.Printf("error: %v", err)
			os.Exit(exitCodeFor(err))
		}
	}

	if !ran {
		fmt.Println("Document loaded successfully. Use one of:")
		fmt.Println("  -query \"x,y\" -direction=to-ref|to-robot")
		fmt.Println("  -preview=out.svg [-preview-format=svg|png]")
		fmt.Println("  -geojson=out.json [-frame=ref|robot]")
		fmt.Println("  -relay -mqtt-broker=... -mqtt-subscribe=... -mqtt-publish=...")
	}
}

// exitCodeFor maps the two-fault-kind error model onto distinct,
// documented process exit codes (spec 6).
func exitCodeFor(err error) int {
	var inputErr *transform.InputError
	var stateErr *transform.StateError
	switch {
	case asInputError(err, &inputErr):
		return exitInputFault
	case asStateError(err, &stateErr):
		return exitLogicFault
	default:
		return exitUsage
	}
}

func asInputError(err error, target **transform.InputError) bool {
	for err != nil {
		if ie, ok := err.(*transform.InputError); ok {
			*target = ie
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func asStateError(err error, target **transform.StateError) bool {
	se, ok := err.(*transform.StateError)
	if ok {
		*target = se
	}
	return ok
}

// parsePoint parses a "x,y" CLI argument into a transform.Point.
func parsePoint(raw string) (transform.Point, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return transform.Point{}, fmt.Errorf("point %q must be \"x,y\"", raw)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return transform.Point{}, fmt.Errorf("point %q: invalid x: %w", raw, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return transform.Point{}, fmt.Errorf("point %q: invalid y: %w", raw, err)
	}
	return transform.Point{X: x, Y: y}, nil
}

// jsonEncoder returns an indenting json.Encoder writing to w.
func jsonEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

// waitForInterrupt blocks until SIGINT or SIGTERM is received.
func waitForInterrupt() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
}
