package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all renderer configuration values
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Camera   CameraConfig   `yaml:"camera"`
	Movement MovementConfig `yaml:"movement"`
	Render   RenderConfig   `yaml:"render"`
	Map      MapConfig      `yaml:"map"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	Fullscreen   bool   `yaml:"fullscreen"`
	TPS          int    `yaml:"tps"`
}

type CameraConfig struct {
	// FieldOfView is the camera plane half-extent; 0.60 works out to ~60 degrees.
	FieldOfView  float64    `yaml:"field_of_view"`
	CameraHeight float64    `yaml:"camera_height"` // eye height as a fraction of screen height
	Horizon      float64    `yaml:"horizon"`       // horizon row as a fraction of screen height
	StartX       float64    `yaml:"start_x"`
	StartY       float64    `yaml:"start_y"`
	Direction    [2]float64 `yaml:"direction"`
}

type MovementConfig struct {
	MoveSpeed     float64 `yaml:"move_speed"`     // units / second
	RotationSpeed float64 `yaml:"rotation_speed"` // radians / second
}

type RenderConfig struct {
	MaxRaySteps int     `yaml:"max_ray_steps"` // 0 derives the cap from the map size
	SpriteScale float64 `yaml:"sprite_scale"`
	DepthScale  float64 `yaml:"depth_scale"`
	NearPlane   float64 `yaml:"near_plane"`
	TextureSize int     `yaml:"texture_size"`
	Floor       bool    `yaml:"floor"`
	Ceiling     bool    `yaml:"ceiling"`
	SideShade   float64 `yaml:"side_shade"`
	Minimap     bool    `yaml:"minimap"`
	ShowHUD     bool    `yaml:"show_hud"`

	FloorTexture   string `yaml:"floor_texture"`
	CeilingTexture string `yaml:"ceiling_texture"`
	Background     [3]int `yaml:"background"`
	// ProceduralTextures generates textures that have no file instead of
	// failing at startup.
	ProceduralTextures bool `yaml:"procedural_textures"`
}

type MapConfig struct {
	File        string   `yaml:"file"`
	Tiles       string   `yaml:"tiles"`
	TextureDirs []string `yaml:"texture_dirs"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var GlobalConfig *Config

// Default returns the configuration used when a value is absent from the file.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  640,
			ScreenHeight: 480,
			WindowTitle:  "Raycast test",
			TPS:          60,
		},
		Camera: CameraConfig{
			FieldOfView:  0.60,
			CameraHeight: 0.5,
			Horizon:      0.5,
			StartX:       3.0,
			StartY:       3.0,
			Direction:    [2]float64{0, -1},
		},
		Movement: MovementConfig{
			MoveSpeed:     1.5,
			RotationSpeed: 1.2,
		},
		Render: RenderConfig{
			SpriteScale:    2.0,
			DepthScale:     1.0,
			NearPlane:      0.05,
			TextureSize:    64,
			Floor:          true,
			Ceiling:        true,
			SideShade:      0.75,
			Minimap:        true,
			ShowHUD:        true,
			FloorTexture:   "floor",
			CeilingTexture: "ceiling",
		},
		Map: MapConfig{
			File:        "assets/map.txt",
			Tiles:       "assets/tiles.yaml",
			TextureDirs: []string{"assets/textures"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads the configuration from a YAML file on top of Default
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Set global config for easy access
	GlobalConfig = config

	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate checks ranges that the raycaster relies on.
func (c *Config) Validate() error {
	switch {
	case c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, c.Display.ScreenWidth, c.Display.ScreenHeight)
	case c.Camera.FieldOfView <= 0:
		return fmt.Errorf("%w: field_of_view must be positive", ErrInvalidConfig)
	case c.Camera.CameraHeight < 0 || c.Camera.CameraHeight > 1:
		return fmt.Errorf("%w: camera_height must be in [0,1]", ErrInvalidConfig)
	case c.Camera.Horizon < 0 || c.Camera.Horizon > 1:
		return fmt.Errorf("%w: horizon must be in [0,1]", ErrInvalidConfig)
	case c.Camera.Direction == [2]float64{}:
		return fmt.Errorf("%w: camera direction must be non-zero", ErrInvalidConfig)
	case c.Movement.MoveSpeed < 0 || c.Movement.RotationSpeed < 0:
		return fmt.Errorf("%w: speeds must not be negative", ErrInvalidConfig)
	case c.Render.MaxRaySteps < 0:
		return fmt.Errorf("%w: max_ray_steps must not be negative", ErrInvalidConfig)
	case c.Render.SpriteScale <= 0 || c.Render.DepthScale <= 0:
		return fmt.Errorf("%w: sprite_scale and depth_scale must be positive", ErrInvalidConfig)
	case c.Render.NearPlane < 0:
		return fmt.Errorf("%w: near_plane must not be negative", ErrInvalidConfig)
	case c.Render.TextureSize <= 0:
		return fmt.Errorf("%w: texture_size must be positive", ErrInvalidConfig)
	case c.Render.SideShade < 0 || c.Render.SideShade > 1:
		return fmt.Errorf("%w: side_shade must be in [0,1]", ErrInvalidConfig)
	case c.Map.File == "":
		return fmt.Errorf("%w: map.file is required", ErrInvalidConfig)
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Movement.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Movement.RotationSpeed
}

func (c *Config) GetCameraFOV() float64 {
	return c.Camera.FieldOfView
}

func (c *Config) GetTextureSize() int {
	return c.Render.TextureSize
}
