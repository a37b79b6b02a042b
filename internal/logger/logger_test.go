package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(Options{Level: "debug", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer Setup(Options{})

	Component("wall_caster").WithField("column", 3).Debug("no hit")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "wall_caster" {
		t.Errorf("component field = %v", entry["component"])
	}
	if entry["msg"] != "no hit" {
		t.Errorf("msg field = %v", entry["msg"])
	}
}

func TestSetupRejectsBadValues(t *testing.T) {
	defer Setup(Options{})
	if err := Setup(Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := Setup(Options{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSetupDefaults(t *testing.T) {
	if err := Setup(Options{}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", Log.GetLevel())
	}
}
