// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	Fullscreen    bool `yaml:"fullscreen"`
	VSync         bool `yaml:"vsync"`
	ShadowMapSize int  `yaml:"shadow_map_size"` // 0 disables the shadow pass
}

// TerrainConfig holds the parameters of the procedural height field.
type TerrainConfig struct {
	Seed      int64   `yaml:"seed"`
	Amplitude float32 `yaml:"amplitude"`
	Frequency float32 `yaml:"frequency"`
	Octaves   int     `yaml:"octaves"`
}

// CameraConfig holds projection and controller settings.
type CameraConfig struct {
	FOV         float32 `yaml:"fov"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Sensitivity float32 `yaml:"sensitivity"`
	MoveSpeed   float32 `yaml:"move_speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			ShadowMapSize: 2048,
		},
		Terrain: TerrainConfig{
			Seed:      1337,
			Amplitude: 8.0,
			Frequency: 0.02,
			Octaves:   5,
		},
		Camera: CameraConfig{
			FOV:         60,
			Near:        0.1,
			Far:         1000,
			Sensitivity: 0.3,
			MoveSpeed:   24,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
