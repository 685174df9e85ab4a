// internal/app/bootstrap/bootstrap.go
package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/trucmai204/tinverse/internal/pkg/utils"
	"github.com/trucmai204/tinverse/pkg/config"
	"github.com/trucmai204/tinverse/pkg/idgen"
)

const (
	sessionKeyFile = "session.key"
	idSeedFile     = "idgen.seed"
	secretLength   = 32
)

// Bootstrapper 负责启动阶段需要持久化的密钥：会话签名密钥和公共ID种子
type Bootstrapper struct {
	cfg     *config.Config
	dataDir string
}

func NewBootstrapper(cfg *config.Config, dataDir string) *Bootstrapper {
	if dataDir == "" {
		dataDir = filepath.Dir(config.DefaultFilePath)
	}
	return &Bootstrapper{cfg: cfg, dataDir: dataDir}
}

// Initialize 执行全部引导步骤
func (b *Bootstrapper) Initialize() error {
	log.Println("--- 开始执行启动引导程序 ---")

	if err := b.ensureSessionSecret(); err != nil {
		return err
	}
	if err := b.initIDEncoder(); err != nil {
		return err
	}

	log.Println("--- 启动引导程序执行完成 ---")
	return nil
}

// ensureSessionSecret 配置中没有密钥时，从 data/session.key 读取，不存在则生成
func (b *Bootstrapper) ensureSessionSecret() error {
	if strings.TrimSpace(b.cfg.GetString(config.KeySessionSecret)) != "" {
		log.Println("会话密钥来自配置文件或环境变量。")
		return nil
	}

	secret, created, err := b.loadOrCreate(sessionKeyFile, func() (string, error) {
		return utils.RandomToken(secretLength)
	})
	if err != nil {
		return fmt.Errorf("初始化会话密钥失败: %w", err)
	}
	if created {
		log.Printf("✅ 已生成新的会话密钥并保存到 %s", filepath.Join(b.dataDir, sessionKeyFile))
	}
	b.cfg.Set(config.KeySessionSecret, secret)
	return nil
}

// initIDEncoder 公共ID种子必须跨重启保持不变，否则旧的文章链接会失效
func (b *Bootstrapper) initIDEncoder() error {
	seed, created, err := b.loadOrCreate(idSeedFile, idgen.GenerateRandomSeed)
	if err != nil {
		return fmt.Errorf("初始化公共ID种子失败: %w", err)
	}
	if created {
		log.Printf("✅ 已生成新的公共ID种子并保存到 %s", filepath.Join(b.dataDir, idSeedFile))
	}
	return idgen.InitSqidsEncoderWithSeed(seed)
}

func (b *Bootstrapper) loadOrCreate(name string, generate func() (string, error)) (string, bool, error) {
	path := filepath.Join(b.dataDir, name)

	raw, err := os.ReadFile(path)
	if err == nil {
		if value := strings.TrimSpace(string(raw)); value != "" {
			return value, false, nil
		}
		log.Printf("⚠️ 文件 %s 为空，将重新生成。", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, fmt.Errorf("读取 %s 失败: %w", path, err)
	}

	value, err := generate()
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(b.dataDir, 0755); err != nil {
		return "", false, fmt.Errorf("创建目录失败: %w", err)
	}
	if err := os.WriteFile(path, []byte(value), 0600); err != nil {
		return "", false, fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return value, true, nil
}
