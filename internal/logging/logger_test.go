package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func resetForTest(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_ = Initialize(Options{})
	})
}

// TestAllCategoriesLog tests that every category creates a log file when debug mode is on
func TestAllCategoriesLog(t *testing.T) {
	resetForTest(t)
	dir := filepath.Join(t.TempDir(), "logs")

	if err := Initialize(Options{Dir: dir, DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot,
		CategoryIdentity,
		CategoryStore,
		CategoryAPI,
		CategoryChat,
		CategoryPerformance,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	Boot("Convenience boot log")
	Identity("Convenience identity log")
	API("Convenience api log")
	Chat("Convenience chat log")
	StoreDebug("Convenience store log")

	CloseAll()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	for _, cat := range categories {
		found := false
		for _, entry := range entries {
			if strings.HasSuffix(entry.Name(), "_"+string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
				if err != nil {
					t.Errorf("Failed to read log file for %s: %v", cat, err)
					continue
				}
				if !strings.Contains(string(content), "Test info message for "+string(cat)) {
					t.Errorf("Log file for %s missing info entry: %q", cat, content)
				}
				break
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created when debug mode is off
func TestDebugModeDisabled(t *testing.T) {
	resetForTest(t)
	dir := filepath.Join(t.TempDir(), "logs")

	if err := Initialize(Options{Dir: dir, DebugMode: false}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	Boot("should not be written")
	API("should not be written")
	CloseAll()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected no logs directory in production mode, stat err=%v", err)
	}
}

func TestCategoryFilter(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()

	err := Initialize(Options{
		Dir:        dir,
		DebugMode:  true,
		Categories: map[string]bool{"api": false, "chat": true},
	})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if IsCategoryEnabled(CategoryAPI) {
		t.Error("api category should be disabled")
	}
	if !IsCategoryEnabled(CategoryChat) {
		t.Error("chat category should be enabled")
	}
	if !IsCategoryEnabled(CategoryIdentity) {
		t.Error("unlisted categories default to enabled")
	}

	API("dropped")
	CloseAll()

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_api.log") {
			t.Errorf("api log file should not exist, found %s", e.Name())
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()

	if err := Initialize(Options{Dir: dir, DebugMode: true, Level: "warning"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	l := Get(CategoryChat)
	l.Info("hidden info")
	l.Warn("visible warn")
	CloseAll()

	entries, _ := os.ReadDir(dir)
	var content string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_chat.log") {
			data, _ := os.ReadFile(filepath.Join(dir, e.Name()))
			content = string(data)
		}
	}
	if strings.Contains(content, "hidden info") {
		t.Errorf("info entry should be filtered at warn level: %q", content)
	}
	if !strings.Contains(content, "visible warn") {
		t.Errorf("warn entry missing: %q", content)
	}
}

func TestInvalidLevel(t *testing.T) {
	resetForTest(t)
	if err := Initialize(Options{DebugMode: true, Dir: t.TempDir(), Level: "loud"}); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestJSONFormatWithFields(t *testing.T) {
	resetForTest(t)
	dir := t.TempDir()

	if err := Initialize(Options{Dir: dir, DebugMode: true, JSONFormat: true}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	Get(CategoryAPI).With(zap.String("user_id", "u1")).Info("sent %d bytes", 42)
	CloseAll()

	entries, _ := os.ReadDir(dir)
	var content string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_api.log") {
			data, _ := os.ReadFile(filepath.Join(dir, e.Name()))
			content = string(data)
		}
	}
	if !strings.Contains(content, `"user_id":"u1"`) {
		t.Errorf("expected structured field in JSON entry: %q", content)
	}
	if !strings.Contains(content, `"msg":"sent 42 bytes"`) {
		t.Errorf("expected formatted message in JSON entry: %q", content)
	}
}

func TestNoopLoggerIsSafe(t *testing.T) {
	resetForTest(t)
	_ = Initialize(Options{})

	l := Get(CategoryChat)
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.With(zap.Int("n", 1)).Info("x")
}

func TestTimer(t *testing.T) {
	resetForTest(t)
	_ = Initialize(Options{})

	timer := StartTimer(CategoryAPI, "op")
	time.Sleep(2 * time.Millisecond)
	if d := timer.StopWithThreshold(time.Hour); d <= 0 {
		t.Errorf("expected positive duration, got %v", d)
	}
	if d := StartTimer(CategoryAPI, "op").Stop(); d < 0 {
		t.Errorf("expected non-negative duration, got %v", d)
	}
}
