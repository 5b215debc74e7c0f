package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 封装zap日志器，提供模拟运行相关的结构化日志
type Logger struct {
	*zap.Logger
	config Config
}

// Config 日志配置
type Config struct {
	Level      string   `yaml:"level"`       // debug, info, warn, error
	Outputs    []string `yaml:"outputs"`     // stdout, stderr, file
	OutputFile string   `yaml:"output_file"` // 日志文件路径
	ErrorFile  string   `yaml:"error_file"`  // 错误日志单独文件
	Format     string   `yaml:"format"`      // json 或 console
}

// DefaultConfig 返回默认配置。输出到 stderr，stdout 留给报告。
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Outputs: []string{"stderr"},
		Format:  "console",
	}
}

// New 创建新的Logger实例
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	newEncoder := func() zapcore.Encoder {
		if cfg.Format == "console" {
			return zapcore.NewConsoleEncoder(encoderConfig)
		}
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	cores := []zapcore.Core{}

	if contains(cfg.Outputs, "stdout") {
		cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(os.Stdout), level))
	}
	if contains(cfg.Outputs, "stderr") {
		cores = append(cores, zapcore.NewCore(newEncoder(), zapcore.AddSync(os.Stderr), level))
	}

	// 文件输出
	if contains(cfg.Outputs, "file") && cfg.OutputFile != "" {
		fileWriter, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file failed: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(fileWriter),
			level,
		))
	}

	// 错误日志单独文件
	if cfg.ErrorFile != "" {
		errorWriter, err := os.OpenFile(cfg.ErrorFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open error log file failed: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(errorWriter),
			zapcore.ErrorLevel,
		))
	}

	core := zapcore.NewTee(cores...)
	zapLogger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return &Logger{
		Logger: zapLogger,
		config: cfg,
	}, nil
}

// Wrap 包装已有的 zap 日志器（测试里配合 zaptest 使用）
func Wrap(l *zap.Logger) *Logger {
	return &Logger{Logger: l}
}

// Nop 不输出任何内容
func Nop() *Logger {
	return Wrap(zap.NewNop())
}

// WithFields 添加字段返回新的logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		Logger: l.Logger.With(toFields(fields)...),
		config: l.config,
	}
}

// LogTrade 记录单笔模拟成交（debug 级别，1000 步内可能很多）
func (l *Logger) LogTrade(event string, fields map[string]interface{}) {
	if !l.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event"] = event
	l.Debug("trade_event", toFields(fields)...)
}

// LogRun 记录一次模拟的开始/结束
func (l *Logger) LogRun(event string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["event"] = event
	l.Info("run_event", toFields(fields)...)
}

// LogError 记录错误并附带上下文
func (l *Logger) LogError(err error, context map[string]interface{}) {
	if context == nil {
		context = make(map[string]interface{})
	}
	context["error"] = err.Error()
	l.Error("error_event", toFields(context)...)
}

// Close 关闭日志器
func (l *Logger) Close() error {
	return l.Sync()
}

func toFields(m map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(m))
	for k, v := range m {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
