// Package catalogfile lee el catálogo inicial de exámenes y cursos desde YAML.
package catalogfile

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/segvenc-api/internal/application/dto"
)

// File formato del archivo:
//
//	exames:
//	  - nome: ASO Periódico
//	    validade_dias: 365
//	cursos:
//	  - nome: NR-35
//	    validade_dias: 730
type File struct {
	Exams   []Entry `yaml:"exames"`
	Courses []Entry `yaml:"cursos"`
}

// Entry un examen o curso con su validez en días.
type Entry struct {
	Name         string `yaml:"nome"`
	ValidityDays int    `yaml:"validade_dias"`
}

// Load decodifica el YAML y lo convierte en entradas de catálogo.
func Load(r io.Reader) ([]dto.CertificationRequest, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("catálogo yaml: %w", err)
	}
	out := make([]dto.CertificationRequest, 0, len(f.Exams)+len(f.Courses))
	add := func(kind string, entries []Entry) error {
		for i, e := range entries {
			name := strings.TrimSpace(e.Name)
			if name == "" {
				return fmt.Errorf("catálogo yaml: %s[%d] sin nome", kind, i)
			}
			out = append(out, dto.CertificationRequest{Kind: kind, Name: name, ValidityDays: e.ValidityDays})
		}
		return nil
	}
	if err := add("Exame", f.Exams); err != nil {
		return nil, err
	}
	if err := add("Curso", f.Courses); err != nil {
		return nil, err
	}
	return out, nil
}
