// Package auth реализует проверку токена запроса.
//
// Для администратора токен - SHA-512 от часовой метки YYYYMMDDHH и admin-соли,
// для остальных - SHA-512 от account + login + соль.
// Токен сравнивается с hex в нижнем регистре как есть, без приведения регистра.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"
)

// ErrForbidden возвращается, если токен не совпал с ожидаемым.
var ErrForbidden = errors.New("forbidden")

// hourLayout - часовая метка, из которой считается токен администратора.
const hourLayout = "2006010215"

// Checker проверяет токены. Безопасен для конкурентного использования.
type Checker struct {
	salt       string
	adminLogin string
	adminSalt  string
	now        func() time.Time
}

// New создаёт Checker с секретами из конфига.
func New(salt, adminLogin, adminSalt string) *Checker {
	return &Checker{salt: salt, adminLogin: adminLogin, adminSalt: adminSalt, now: time.Now}
}

// WithClock возвращает копию Checker с другим источником времени.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	cp := *c
	cp.now = now
	return &cp
}

// AdminLogin возвращает логин администратора.
func (c *Checker) AdminLogin() string {
	return c.adminLogin
}

// Digest возвращает hex SHA-512 строки s.
func Digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

// AdminToken возвращает ожидаемый токен администратора для момента t.
func (c *Checker) AdminToken(t time.Time) string {
	return Digest(t.Format(hourLayout) + c.adminSalt)
}

// UserToken возвращает ожидаемый токен для обычного аккаунта.
func (c *Checker) UserToken(account, login string) string {
	return Digest(account + login + c.salt)
}

// Check возвращает ErrForbidden, если token не подходит для account/login.
func (c *Checker) Check(account, login, token string) error {
	var want string
	if login == c.adminLogin {
		want = c.AdminToken(c.now())
	} else {
		want = c.UserToken(account, login)
	}
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(want)) != 1 {
		return ErrForbidden
	}
	return nil
}
