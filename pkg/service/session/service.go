package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/trucmai204/tinverse/internal/pkg/auth"
	"github.com/trucmai204/tinverse/internal/pkg/event"
	"github.com/trucmai204/tinverse/pkg/constant"
	"github.com/trucmai204/tinverse/pkg/domain/model"
	"github.com/trucmai204/tinverse/pkg/service/utility"
)

// DefaultTTL 会话默认有效期
const DefaultTTL = 7 * 24 * time.Hour

// Authenticator 由远端内容 API 完成真正的认证
type Authenticator interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.User, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
}

// Publisher 发布领域事件
type Publisher interface {
	Publish(topic event.Topic, payload interface{})
}

// Service 定义了会话的生命周期
type Service interface {
	// Init 在每个请求开始时根据 Cookie 恢复会话，缺失或无效时返回未登录会话
	Init(ctx context.Context, cookieToken string) *Session
	Login(ctx context.Context, req model.LoginRequest) (*Session, error)
	// Register 注册并直接登录
	Register(ctx context.Context, req model.RegisterRequest) (*Session, error)
	Logout(ctx context.Context, s *Session) error
	// Refresh 在个人资料修改后更新会话里的用户对象
	Refresh(ctx context.Context, s *Session, user *model.User) (*Session, error)
	TTL() time.Duration
}

// Options 配置会话服务
type Options struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

type service struct {
	authn  Authenticator
	store  utility.CacheService
	bus    Publisher
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService 是会话服务的构造函数。bus 可以为 nil。
func NewService(authn Authenticator, store utility.CacheService, bus Publisher, opts Options) Service {
	s := &service{
		authn:  authn,
		store:  store,
		bus:    bus,
		secret: opts.Secret,
		ttl:    opts.TTL,
		now:    opts.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) TTL() time.Duration {
	return s.ttl
}

func (s *service) Init(ctx context.Context, cookieToken string) *Session {
	if cookieToken == "" {
		return Anonymous()
	}
	claims, err := auth.ParseSessionToken(cookieToken, s.secret)
	if err != nil {
		return Anonymous()
	}
	sid := claims.SessionID

	stored, err := s.store.Get(ctx, constant.SessionTokenKey(sid))
	if err != nil {
		log.Printf("[Session] 读取会话 %s 失败: %v", sid, err)
		return Anonymous()
	}
	// 已登出或过期的会话，令牌本身仍然有效也不能使用
	if stored != cookieToken {
		return Anonymous()
	}

	var user model.User
	if !s.load(ctx, constant.SessionUserKey(sid), &user) || user.ID != claims.UserID {
		return Anonymous()
	}
	var state model.AuthState
	if !s.load(ctx, constant.SessionAuthKey(sid), &state) {
		state = model.NewAuthState(&user, s.now())
	}
	return &Session{ID: sid, User: &user, Token: cookieToken, Auth: state}
}

func (s *service) load(ctx context.Context, key string, dst interface{}) bool {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("[Session] 读取 %s 失败: %v", key, err)
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("[Session] 解析 %s 失败: %v", key, err)
		return false
	}
	return true
}

func (s *service) Login(ctx context.Context, req model.LoginRequest) (*Session, error) {
	user, err := s.authn.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID <= 0 {
		return nil, fmt.Errorf("%w: phản hồi đăng nhập không có thông tin người dùng", constant.ErrUnauthorized)
	}
	return s.create(ctx, user)
}

func (s *service) Register(ctx context.Context, req model.RegisterRequest) (*Session, error) {
	user, err := s.authn.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID <= 0 {
		// 部分后端注册成功后不返回用户对象，用同一组凭据再登录一次
		return s.Login(ctx, model.LoginRequest{Email: req.Email, Password: req.Password})
	}
	return s.create(ctx, user)
}

func (s *service) create(ctx context.Context, user *model.User) (*Session, error) {
	sid := uuid.NewString()
	token, err := auth.GenerateSessionToken(sid, user.ID, s.ttl, s.secret)
	if err != nil {
		return nil, fmt.Errorf("生成会话令牌失败: %w", err)
	}
	sess := &Session{ID: sid, User: user, Token: token, Auth: model.NewAuthState(user, s.now())}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, constant.SessionTokenKey(sid), token, s.ttl); err != nil {
		return nil, fmt.Errorf("保存会话令牌失败: %w", err)
	}
	log.Printf("[Session] 用户 %d 登录，会话 %s", user.ID, sid)
	return sess, nil
}

// save 写入用户对象和认证状态
func (s *service) save(ctx context.Context, sess *Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("序列化会话用户失败: %w", err)
	}
	authJSON, err := json.Marshal(sess.Auth)
	if err != nil {
		return fmt.Errorf("序列化认证状态失败: %w", err)
	}
	if err := s.store.Set(ctx, constant.SessionUserKey(sess.ID), string(userJSON), s.ttl); err != nil {
		return fmt.Errorf("保存会话用户失败: %w", err)
	}
	if err := s.store.Set(ctx, constant.SessionAuthKey(sess.ID), string(authJSON), s.ttl); err != nil {
		return fmt.Errorf("保存认证状态失败: %w", err)
	}
	return nil
}

func (s *service) Logout(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return nil
	}
	userID := sess.UserID()
	err := s.store.Delete(ctx,
		constant.SessionUserKey(sess.ID),
		constant.SessionTokenKey(sess.ID),
		constant.SessionAuthKey(sess.ID),
	)
	if err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}
	if s.bus != nil && userID > 0 {
		s.bus.Publish(event.SessionEnded, userID)
	}
	log.Printf("[Session] 用户 %d 登出，会话 %s", userID, sess.ID)
	return nil
}

func (s *service) Refresh(ctx context.Context, sess *Session, user *model.User) (*Session, error) {
	if !sess.LoggedIn() {
		return nil, constant.ErrUnauthorized
	}
	if user == nil || user.ID != sess.User.ID {
		return nil, fmt.Errorf("%w: 用户不匹配", constant.ErrBadRequest)
	}
	updated := &Session{
		ID:    sess.ID,
		User:  user,
		Token: sess.Token,
		Auth:  model.NewAuthState(user, sess.Auth.LoggedInAt),
	}
	if err := s.save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
