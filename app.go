package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kwv/maptransform/relay"
	"github.com/kwv/maptransform/transform"
)

// Distinct, documented exit codes (spec 6: "any wrapper must surface
// validator messages verbatim and distinguish input faults from logic
// faults"). 0 is success.
const (
	exitInputFault = 1
	exitLogicFault = 2
	exitUsage      = 3
)

// App encapsulates the application state and dependencies, mirroring the
// teacher's own App: a thin holder for the loaded config plus the CLI
// options that shaped it.
type App struct {
	Config *transform.Config

	DocumentFile string
	Frame        string
	PreviewFile  string
	PreviewFmt   string
	GeoJSONFile  string

	MQTTBroker         string
	MQTTClientID       string
	MQTTUsername       string
	MQTTPassword       string
	MQTTSubscribeTopic string
	MQTTPublishTopic   string
}

// NewApp creates a new App instance.
func NewApp() *App {
	return &App{Config: transform.New()}
}

// LoadDocument loads and validates the configured document file into the
// App's transform.Config. Failures here are input faults: the document
// itself, not the program, is at fault.
func (a *App) LoadDocument() error {
	cand, err := transform.LoadDocumentFile(a.DocumentFile)
	if err != nil {
		return err
	}
	return a.Config.Load(cand)
}

// RunQuery parses an "x,y" point, transforms it according to a.Frame
// ("to-ref" or "to-robot"), and prints the result.
func (a *App) RunQuery(raw string) error {
	p, err := parsePoint(raw)
	if err != nil {
		return err
	}

	var out transform.Point
	switch a.Frame {
	case "to-ref":
		out, err = a.Config.ToRef(p)
	case "to-robot":
		out, err = a.Config.ToRobot(p)
	default:
		return fmt.Errorf("unknown query direction %q (want to-ref or to-robot)", a.Frame)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%.6f,%.6f\n", out.X, out.Y)
	return nil
}

// RunPreview renders the loaded mesh to a.PreviewFile in a.PreviewFmt.
func (a *App) RunPreview() error {
	f, err := os.Create(a.PreviewFile)
	if err != nil {
		return fmt.Errorf("creating preview output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("warning: closing preview output file: %v", cerr)
		}
	}()

	if err := transform.RenderMeshPreview(a.Config, f, a.PreviewFmt); err != nil {
		return err
	}
	fmt.Printf("Wrote mesh preview to %s\n", a.PreviewFile)
	return nil
}

// RunGeoJSON exports the loaded mesh as a GeoJSON FeatureCollection to
// a.GeoJSONFile.
func (a *App) RunGeoJSON() error {
	fc, err := transform.MeshGeoJSON(a.Config, a.Frame)
	if err != nil {
		return err
	}

	f, err := os.Create(a.GeoJSONFile)
	if err != nil {
		return fmt.Errorf("creating geojson output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("warning: closing geojson output file: %v", cerr)
		}
	}()

	enc := jsonEncoder(f)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encoding geojson: %w", err)
	}
	fmt.Printf("Wrote mesh GeoJSON to %s\n", a.GeoJSONFile)
	return nil
}

// RunRelay starts the MQTT live-position relay and blocks until
// interrupted.
func (a *App) RunRelay() error {
	cfg := relay.Config{
		Broker:         a.MQTTBroker,
		ClientID:       a.MQTTClientID,
		Username:       a.MQTTUsername,
		Password:       a.MQTTPassword,
		SubscribeTopic: a.MQTTSubscribeTopic,
		PublishTopic:   a.MQTTPublishTopic,
		QoS:            0,
		Retain:         false,
	}

	r, err := relay.New(cfg, a.Config)
	if err != nil {
		return err
	}
	r.Connect()
	waitForInterrupt()
	r.Disconnect()
	return nil
}
