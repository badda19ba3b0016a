// Package cnpj valida y formatea el CNPJ (registro de persona jurídica de la Receita Federal).
package cnpj

import (
	"fmt"
	"unicode"
)

// pesos del módulo 11 para el primer y segundo dígito verificador.
var (
	firstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Normalize valida el CNPJ (con o sin puntuación) y lo devuelve en formato
// 00.000.000/0000-00. Rechaza secuencias repetidas como 00.000.000/0000-00.
func Normalize(raw string) (string, error) {
	digits := extractDigits(raw)
	if len(digits) != 14 {
		return "", fmt.Errorf("cnpj: debe tener 14 dígitos, se encontraron %d", len(digits))
	}
	if repeated(digits) {
		return "", fmt.Errorf("cnpj: secuencia inválida")
	}
	d1 := checkDigit(digits[:12], firstWeights[:])
	d2 := checkDigit(append(append([]byte{}, digits[:12]...), d1), secondWeights[:])
	if digits[12] != d1 || digits[13] != d2 {
		return "", fmt.Errorf("cnpj: dígitos verificadores inválidos: esperado %c%c, recibido %c%c", d1, d2, digits[12], digits[13])
	}
	return format(digits), nil
}

func checkDigit(base []byte, weights []int) byte {
	var sum int
	for i, d := range base {
		sum += int(d-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + (11 - remainder))
}

func format(d []byte) string {
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
}

func repeated(d []byte) bool {
	for _, c := range d[1:] {
		if c != d[0] {
			return false
		}
	}
	return true
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
