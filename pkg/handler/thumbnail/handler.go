/*
 * @Description: 占位图片。回退数据里的图片地址 {ImageBase}/{id}.png 都指向这里，
 *               同一个种子总是得到同一张图片。
 */
package thumbnail_handler

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 360
	maxDimension  = 1600
	cacheSize     = 512
)

// palette 占位图的底色
var palette = []color.NRGBA{
	{R: 0x27, G: 0x54, B: 0xc5, A: 0xff},
	{R: 0x0f, G: 0x76, B: 0x6e, A: 0xff},
	{R: 0xb4, G: 0x53, B: 0x09, A: 0xff},
	{R: 0x7c, G: 0x3a, B: 0xed, A: 0xff},
	{R: 0xbe, G: 0x12, B: 0x3c, A: 0xff},
	{R: 0x37, G: 0x41, B: 0x51, A: 0xff},
}

// ThumbnailHandler 生成并缓存占位图片
type ThumbnailHandler struct {
	cache *lru.Cache[string, []byte]
}

// NewThumbnailHandler 是 ThumbnailHandler 的构造函数
func NewThumbnailHandler() *ThumbnailHandler {
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		panic(err)
	}
	return &ThumbnailHandler{cache: cache}
}

// Placeholder 处理 GET /placeholder/:seed，可选参数 w、h
func (h *ThumbnailHandler) Placeholder(c *gin.Context) {
	seed := strings.TrimSuffix(c.Param("seed"), ".png")
	if seed == "" {
		c.Status(http.StatusNotFound)
		return
	}
	w := dimension(c.Query("w"), DefaultWidth)
	ht := dimension(c.Query("h"), DefaultHeight)

	key := seed + ":" + strconv.Itoa(w) + "x" + strconv.Itoa(ht)
	data, ok := h.cache.Get(key)
	if !ok {
		var err error
		data, err = Render(seed, w, ht)
		if err != nil {
			log.Printf("[Placeholder] 生成占位图片 %s 失败: %v", seed, err)
			c.Status(http.StatusInternalServerError)
			return
		}
		h.cache.Add(key, data)
	}

	c.Header("Cache-Control", "public, max-age=86400, immutable")
	c.Data(http.StatusOK, "image/png", data)
}

func dimension(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	if v > maxDimension {
		return maxDimension
	}
	return v
}

// Render 根据种子生成一张 PNG：纯色底加一条浅色横带
func Render(seed string, width, height int) ([]byte, error) {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(seed))
	sum := hash.Sum32()
	base := palette[int(sum%uint32(len(palette)))]

	img := imaging.New(width, height, base)
	band := imaging.New(width, height/5+1, lighten(base, 0.35))
	offset := int(sum>>8) % (height - height/5 + 1)
	img = imaging.Paste(img, band, image.Pt(0, offset))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lighten(c color.NRGBA, f float64) color.NRGBA {
	mix := func(v uint8) uint8 { return uint8(float64(v) + (255-float64(v))*f) }
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
