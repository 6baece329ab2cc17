// Package settings exposes rigpreview's process-wide persisted settings as
// typed accessors over the store's key/value table. Every getter falls back
// to a documented default when the key has never been written, so a fresh
// install behaves identically to one whose settings file was deleted.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rigtools/rigpreview/internal/store"
)

// Persisted setting keys.
const (
	KeyDebugLogging      = "debug_logging"
	KeyPreviewMode       = "preview_mode"
	KeyBoneOverlay       = "bone_overlay"
	KeyHotkeyCode        = "hotkey_code"
	KeySuppressAutoBuild = "suppress_autobuild"
	KeySuppressExporters = "suppress_exporters"
)

// Preview modes. "safe" edits an isolated clone; "fast" edits the original
// in place and relies on the snapshot alone to undo.
const (
	PreviewModeSafe = "safe"
	PreviewModeFast = "fast"
)

// Defaults.
const (
	DefaultDebugLogging      = false
	DefaultPreviewMode       = PreviewModeSafe
	DefaultBoneOverlay       = true
	DefaultHotkeyCode        = 282
	DefaultSuppressAutoBuild = true
	DefaultSuppressExporters = true
)

// Key describes one persisted setting for listing UIs.
type Key struct {
	Name    string
	Default string
	Doc     string
}

// Known returns the documented settings in display order.
func Known() []Key {
	return []Key{
		{KeyDebugLogging, "false", "enable debug logging and session tracing"},
		{KeyPreviewMode, PreviewModeSafe, "preview mode: safe (clone-based) or fast"},
		{KeyBoneOverlay, "true", "draw the bone overlay while a session is active"},
		{KeyHotkeyCode, "282", "key code that toggles a preview session"},
		{KeySuppressAutoBuild, "true", "suppress auto-build automation during sessions"},
		{KeySuppressExporters, "true", "suppress exporter automation during sessions"},
	}
}

// Settings reads and writes persisted settings through the store.
type Settings struct {
	store *store.Store
}

// New wraps a store.
func New(st *store.Store) *Settings {
	return &Settings{store: st}
}

func (s *Settings) boolOr(ctx context.Context, key string, def bool) bool {
	v, ok, err := s.store.GetSetting(ctx, key)
	if err != nil || !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s *Settings) intOr(ctx context.Context, key string, def int) int {
	v, ok, err := s.store.GetSetting(ctx, key)
	if err != nil || !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// DebugLogging reports whether debug logging is enabled. Default: false.
func (s *Settings) DebugLogging(ctx context.Context) bool {
	return s.boolOr(ctx, KeyDebugLogging, DefaultDebugLogging)
}

// SetDebugLogging persists the debug logging flag.
func (s *Settings) SetDebugLogging(ctx context.Context, v bool) error {
	return s.store.SetSetting(ctx, KeyDebugLogging, strconv.FormatBool(v))
}

// PreviewMode returns "safe" or "fast". Unknown stored values fall back to
// the default rather than propagating garbage into the session engine.
func (s *Settings) PreviewMode(ctx context.Context) string {
	v, ok, err := s.store.GetSetting(ctx, KeyPreviewMode)
	if err != nil || !ok {
		return DefaultPreviewMode
	}
	if v != PreviewModeSafe && v != PreviewModeFast {
		return DefaultPreviewMode
	}
	return v
}

// SetPreviewMode persists the preview mode.
func (s *Settings) SetPreviewMode(ctx context.Context, mode string) error {
	if mode != PreviewModeSafe && mode != PreviewModeFast {
		return fmt.Errorf("invalid preview mode %q (valid: %s, %s)", mode, PreviewModeSafe, PreviewModeFast)
	}
	return s.store.SetSetting(ctx, KeyPreviewMode, mode)
}

// BoneOverlay reports whether the bone overlay is shown. Default: true.
func (s *Settings) BoneOverlay(ctx context.Context) bool {
	return s.boolOr(ctx, KeyBoneOverlay, DefaultBoneOverlay)
}

// SetBoneOverlay persists the bone overlay flag.
func (s *Settings) SetBoneOverlay(ctx context.Context, v bool) error {
	return s.store.SetSetting(ctx, KeyBoneOverlay, strconv.FormatBool(v))
}

// HotkeyCode returns the reprogrammable session hotkey. Default: 282.
// The engine only stores the code; the editor shell interprets it.
func (s *Settings) HotkeyCode(ctx context.Context) int {
	return s.intOr(ctx, KeyHotkeyCode, DefaultHotkeyCode)
}

// SetHotkeyCode persists the session hotkey.
func (s *Settings) SetHotkeyCode(ctx context.Context, code int) error {
	return s.store.SetSetting(ctx, KeyHotkeyCode, strconv.Itoa(code))
}

// SuppressAutoBuild reports whether the auto-build automation family is
// suppressed during sessions. Default: true.
func (s *Settings) SuppressAutoBuild(ctx context.Context) bool {
	return s.boolOr(ctx, KeySuppressAutoBuild, DefaultSuppressAutoBuild)
}

// SetSuppressAutoBuild persists the auto-build suppression toggle.
func (s *Settings) SetSuppressAutoBuild(ctx context.Context, v bool) error {
	return s.store.SetSetting(ctx, KeySuppressAutoBuild, strconv.FormatBool(v))
}

// SuppressExporters reports whether the exporter automation family is
// suppressed during sessions. Default: true.
func (s *Settings) SuppressExporters(ctx context.Context) bool {
	return s.boolOr(ctx, KeySuppressExporters, DefaultSuppressExporters)
}

// SetSuppressExporters persists the exporter suppression toggle.
func (s *Settings) SetSuppressExporters(ctx context.Context, v bool) error {
	return s.store.SetSetting(ctx, KeySuppressExporters, strconv.FormatBool(v))
}
