/*
 * @Description: 统一配置管理 (ini 文件 + 环境变量覆盖)
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyServerCorsOrigins, KeyServerSiteURL,
	KeyBackendBaseURL, KeyBackendTimeout,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeySessionSecret, KeySessionTTL, KeySessionCookieName, KeySessionSecure,
	KeyListItemsPerPage, KeyListCacheTTL, KeyListDebounce, KeyListMaxInstances, KeyListInstanceTTL,
	KeyFallbackEnabled, KeyFallbackImageBase,
}

const (
	KeyServerPort        = "System.Port"
	KeyServerDebug       = "System.Debug"
	KeyServerCorsOrigins = "System.CorsOrigins"
	KeyServerSiteURL     = "System.SiteURL"
	KeyBackendBaseURL    = "Backend.BaseURL"
	KeyBackendTimeout    = "Backend.Timeout"
	KeyRedisAddr         = "Redis.Addr"
	KeyRedisPassword     = "Redis.Password"
	KeyRedisDB           = "Redis.DB"
	KeySessionSecret     = "Session.Secret"
	KeySessionTTL        = "Session.TTL"
	KeySessionCookieName = "Session.CookieName"
	KeySessionSecure     = "Session.Secure"
	KeyListItemsPerPage  = "List.ItemsPerPage"
	KeyListCacheTTL      = "List.CacheTTL"
	KeyListDebounce      = "List.Debounce"
	KeyListMaxInstances  = "List.MaxInstances"
	KeyListInstanceTTL   = "List.InstanceTTL"
	KeyFallbackEnabled   = "Fallback.Enabled"
	KeyFallbackImageBase = "Fallback.ImageBase"
)

// EnvPrefix 是覆盖配置时使用的环境变量前缀，例如 TINVERSE_BACKEND_BASEURL
const EnvPrefix = "TINVERSE"

// DefaultFilePath 是默认的配置文件位置
const DefaultFilePath = "data/conf.ini"

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认位置加载配置
func NewConfig() (*Config, error) {
	return Load(DefaultFilePath)
}

// Load 按 内部默认值 -> ini 文件 -> TINVERSE_* 环境变量 的顺序合并配置
func Load(filePath string) (*Config, error) {
	vp := viper.New()
	setDefaults(vp)

	iniCfg, err := openIni(filePath)
	if err != nil {
		return nil, err
	}
	if iniCfg != nil {
		applyIni(vp, iniCfg)
		log.Printf("从 %s 文件加载了配置。", filePath)
	}
	applyEnv(vp)

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

// openIni 读取配置文件，文件不存在时先写入默认配置。
// 默认文件无法创建时返回 nil，配置只来自环境变量和内部默认值。
func openIni(filePath string) (*ini.File, error) {
	iniCfg, err := ini.Load(filePath)
	if err == nil {
		return iniCfg, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("解析配置文件 '%s' 失败: %w", filePath, err)
	}

	log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
	if err := createDefaultConfigFile(filePath); err != nil {
		log.Printf("警告: 创建默认配置文件失败: %v", err)
		return nil, nil
	}
	iniCfg, err = ini.Load(filePath)
	if err != nil {
		log.Printf("警告: 重新加载配置文件失败: %v", err)
		return nil, nil
	}
	return iniCfg, nil
}

// applyIni 把 [Section] Key 映射为 viper 的 "Section.Key"，空值保留默认值
func applyIni(vp *viper.Viper, iniCfg *ini.File) {
	for _, section := range iniCfg.Sections() {
		for _, key := range section.Keys() {
			if strings.TrimSpace(key.Value()) == "" {
				continue
			}
			name := section.Name() + "." + key.Name()
			if section.Name() == ini.DefaultSection {
				name = key.Name()
			}
			vp.Set(name, key.Value())
		}
	}
}

// EnvName 返回覆盖 key 的环境变量名，例如 Backend.BaseURL -> TINVERSE_BACKEND_BASEURL
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ReplaceAll(strings.ToUpper(key), ".", "_")
}

func applyEnv(vp *viper.Viper) {
	for _, key := range allKeys {
		if value, found := os.LookupEnv(EnvName(key)); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", EnvName(key), key)
		}
	}
}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault(KeyServerPort, "8092")
	vp.SetDefault(KeyServerDebug, false)
	vp.SetDefault(KeyBackendBaseURL, "http://localhost:5000")
	vp.SetDefault(KeyBackendTimeout, "10s")
	vp.SetDefault(KeyRedisDB, 0)
	vp.SetDefault(KeySessionTTL, "168h")
	vp.SetDefault(KeySessionCookieName, "tinverse_session")
	vp.SetDefault(KeySessionSecure, false)
	vp.SetDefault(KeyListItemsPerPage, 9)
	vp.SetDefault(KeyListCacheTTL, "5m")
	vp.SetDefault(KeyListDebounce, "500ms")
	vp.SetDefault(KeyListMaxInstances, 10000)
	vp.SetDefault(KeyListInstanceTTL, "30m")
	vp.SetDefault(KeyFallbackEnabled, true)
	vp.SetDefault(KeyFallbackImageBase, "/placeholder")
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetDuration 读取时长配置，例如 "5m"、"500ms"
func (c *Config) GetDuration(key string) time.Duration {
	return c.vp.GetDuration(key)
}

// Set 仅用于测试与启动阶段写回生成的值（例如自动生成的会话密钥）
func (c *Config) Set(key string, value interface{}) {
	c.vp.Set(key, value)
}

func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	defaultConfig := `[System]
Port = 8092
Debug = false
# 允许跨域访问 /api 的来源，逗号分隔；留空时回显请求来源
CorsOrigins =
# 站点对外地址，用于 RSS 和站点地图；留空时使用请求的 Host
SiteURL =

# 远端内容 API
[Backend]
BaseURL = http://localhost:5000
Timeout = 10s

# Redis 配置（可选）
# 留空 Addr 时会话数据将保存在内存中
[Redis]
Addr =
Password =
DB = 0

[Session]
# 留空时启动阶段自动生成并保存到 data/session.key
Secret =
TTL = 168h
CookieName = tinverse_session
Secure = false

[List]
ItemsPerPage = 9
CacheTTL = 5m
Debounce = 500ms
MaxInstances = 10000
InstanceTTL = 30m

# 后端返回空页或失败时的占位数据
[Fallback]
Enabled = true
ImageBase = /placeholder
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}
