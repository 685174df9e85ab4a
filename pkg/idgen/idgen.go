/*
 * @Description: 公共 ID 编码和解码服务
 */
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	mrand "math/rand/v2"
	"strconv"
	"sync"

	"github.com/sqids/sqids-go"
)

var (
	sqidsEncoder *sqids.Sqids
	encoderMu    sync.RWMutex
)

// DefaultAlphabet 未配置种子时使用的字母表
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// minLength 公共ID的最短长度
const minLength = 6

// 实体类型编码在公共ID的第二个数字中，不同实体的ID不能互相解码
const (
	EntityTypeArticle  uint64 = 1
	EntityTypeCategory uint64 = 2
	EntityTypeComment  uint64 = 3
)

// GenerateRandomSeed 生成 32 个十六进制字符的种子，每个部署首次启动时写入数据目录
func GenerateRandomSeed() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成随机种子失败: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// alphabetFor 同一个种子总是得到同一个字母表顺序
func alphabetFor(seed string) string {
	if seed == "" {
		return DefaultAlphabet
	}
	h := fnv.New64a()
	h.Write([]byte(seed))
	sum := h.Sum64()

	letters := []byte(DefaultAlphabet)
	r := mrand.New(mrand.NewPCG(sum, sum>>32|sum<<32))
	r.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	return string(letters)
}

// InitSqidsEncoderWithSeed 使用种子重新创建编码器，seed 为空时使用默认字母表
func InitSqidsEncoderWithSeed(seed string) error {
	s, err := sqids.New(sqids.Options{MinLength: minLength, Alphabet: alphabetFor(seed)})
	if err != nil {
		return fmt.Errorf("初始化 Sqids 编码器失败: %w", err)
	}
	encoderMu.Lock()
	sqidsEncoder = s
	encoderMu.Unlock()
	return nil
}

func encoder() (*sqids.Sqids, error) {
	encoderMu.RLock()
	s := sqidsEncoder
	encoderMu.RUnlock()
	if s != nil {
		return s, nil
	}
	// 未显式初始化时使用默认字母表
	if err := InitSqidsEncoderWithSeed(""); err != nil {
		return nil, err
	}
	encoderMu.RLock()
	defer encoderMu.RUnlock()
	return sqidsEncoder, nil
}

// GeneratePublicID 把后端数字ID编码为对外展示的短ID
func GeneratePublicID(id int, entityType uint64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("无效的ID: %d", id)
	}
	s, err := encoder()
	if err != nil {
		return "", err
	}

	publicID, err := s.Encode([]uint64{uint64(id), entityType})
	if err != nil {
		return "", fmt.Errorf("编码公共ID失败: %w", err)
	}
	return publicID, nil
}

// DecodePublicID 解码公共 ID，并校验实体类型
func DecodePublicID(publicID string, entityType uint64) (int, error) {
	s, err := encoder()
	if err != nil {
		return 0, err
	}

	numbers := s.Decode(publicID)
	if len(numbers) != 2 {
		return 0, fmt.Errorf("无法从公共ID解码出预期数量的数字(期望2个，得到%d个)", len(numbers))
	}
	if numbers[1] != entityType {
		return 0, fmt.Errorf("公共ID的实体类型不匹配: 期望 %d，得到 %d", entityType, numbers[1])
	}
	// Sqids 允许多种字符串解码到同一组数字，只接受规范编码
	canonical, err := s.Encode(numbers)
	if err != nil || canonical != publicID {
		return 0, fmt.Errorf("非规范的公共ID: %s", publicID)
	}
	return int(numbers[0]), nil
}

// ArticlePath 返回文章详情页的路径
func ArticlePath(articleID int) string {
	publicID, err := GeneratePublicID(articleID, EntityTypeArticle)
	if err != nil {
		return "/articles/" + strconv.Itoa(articleID)
	}
	return "/articles/" + publicID
}

// ParseArticleID 解析路由中的文章ID，兼容旧的纯数字链接
func ParseArticleID(raw string) (int, error) {
	if id, err := strconv.Atoi(raw); err == nil && id > 0 {
		return id, nil
	}
	return DecodePublicID(raw, EntityTypeArticle)
}
