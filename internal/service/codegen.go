package service

import (
	"crypto/rand"
	"math/big"
)

// 随机码字符集与长度约定
const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	invitationCodeLength = 8
	redemptionCodeLength = 12

	// 随机生成碰撞后的重试上限
	// 62^8 量级下碰撞概率可以忽略，但仍需兜底处理而非假设不会发生
	codeGenMaxRetries = 5
)

// randomCode 生成指定长度的随机大小写字母数字串
func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
