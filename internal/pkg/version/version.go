package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// 构建时通过 -ldflags "-X" 注入
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// ModulePath 是主模块路径
const ModulePath = "github.com/trucmai204/tinverse"

const unknown = "unknown"

// BuildInfo 是 /api/version 返回的构建信息
type BuildInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

func injected(v, placeholder string) bool {
	return v != "" && v != placeholder
}

// vcsSetting 读取 go build 记录的 vcs.* 信息
func vcsSetting(key string) (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}

// GetVersion 返回应用版本号，未注入时使用模块版本
func GetVersion() string {
	if injected(Version, "dev") {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if info.Main.Path == ModulePath && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetCommit 返回短 commit hash
func GetCommit() string {
	if injected(Commit, unknown) {
		return Commit
	}
	rev, ok := vcsSetting("vcs.revision")
	if !ok {
		return unknown
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return rev
}

// GetBuildDate 返回构建时间
func GetBuildDate() string {
	if injected(Date, unknown) {
		return Date
	}
	raw, ok := vcsSetting("vcs.time")
	if !ok {
		return unknown
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02 15:04:05")
	}
	return raw
}

// GetBuildInfo 汇总构建信息
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Name:      "tinverse-web",
		Version:   GetVersion(),
		Commit:    GetCommit(),
		Date:      GetBuildDate(),
		GoVersion: GoVersion,
	}
}

// GetVersionString 返回横幅和健康检查里使用的版本字符串
func GetVersionString() string {
	parts := []string{GetVersion()}
	if commit := GetCommit(); commit != unknown {
		parts = append(parts, fmt.Sprintf("commit %s", commit))
	}
	if date := GetBuildDate(); date != unknown {
		parts = append(parts, fmt.Sprintf("built at %s", date))
	}
	return strings.Join(parts, ", ")
}
