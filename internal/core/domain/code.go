// Package domain concentra entidades e regras centrais do gateway.
package domain

import (
	"fmt"
	"strings"
)

// codeAlphabet define os 64 símbolos do código público; o valor numérico de
// cada símbolo é a sua posição nesta string.
const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// MaxCodeWidth limita a largura do código para que qualquer código decodifique
// dentro de um int64 (64^10 = 2^60).
const MaxCodeWidth = 10

// DefaultCodeWidth é a largura usada quando nada for configurado.
const DefaultCodeWidth = 6

// EncodeChatID converte um chat id em um código público de largura fixa,
// dígito mais significativo primeiro. Ids negativos ou fora do intervalo
// representável na largura são rejeitados.
func EncodeChatID(chatID int64, width int) (string, error) {
	if width <= 0 || width > MaxCodeWidth {
		return "", fmt.Errorf("%w: unsupported code width %d", ErrInvalidChatID, width)
	}
	if chatID < 0 {
		return "", fmt.Errorf("%w: negative chat id", ErrInvalidChatID)
	}

	buf := make([]byte, width)
	rem := chatID
	for i := width - 1; i >= 0; i-- {
		buf[i] = codeAlphabet[rem%64]
		rem /= 64
	}
	if rem != 0 {
		return "", fmt.Errorf("%w: chat id does not fit in %d symbols", ErrInvalidChatID, width)
	}
	return string(buf), nil
}

// DecodeCode converte um código público de volta para o chat id. O decode é
// total sobre o alfabeto: aceita qualquer comprimento até MaxCodeWidth, sem
// exigir a largura usada no encode.
func DecodeCode(code string) (int64, error) {
	if code == "" {
		return 0, fmt.Errorf("%w: empty code", ErrInvalidCode)
	}
	if len(code) > MaxCodeWidth {
		return 0, fmt.Errorf("%w: code too long", ErrInvalidCode)
	}

	var acc int64
	for i := 0; i < len(code); i++ {
		idx := strings.IndexByte(codeAlphabet, code[i])
		if idx < 0 {
			return 0, fmt.Errorf("%w: symbol %q not in alphabet", ErrInvalidCode, code[i])
		}
		acc = acc*64 + int64(idx)
	}
	return acc, nil
}
