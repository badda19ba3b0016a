package digest

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jhoicas/segvenc-api/internal/domain/expiry"
)

// Asuntos fijos de los correos.
const (
	Subject     = "Resumo diário de vencimentos"
	TestSubject = "Teste de notificações - SegVenc"
)

// Renderer genera el HTML del resumen de una empresa.
type Renderer struct {
	tmpl    *template.Template
	test    *template.Template
	appURL  string
	logoURL string
}

// NewRenderer compila la plantilla. appURL es el enlace al panel; logoURL es opcional.
func NewRenderer(appURL, logoURL string) *Renderer {
	tmpl := template.Must(template.New("digest").Funcs(template.FuncMap{
		"brDate":    brDate,
		"situation": Situation,
	}).Parse(digestTemplate))
	test := template.Must(template.New("test").Parse(testTemplate))
	return &Renderer{tmpl: tmpl, test: test, appURL: appURL, logoURL: logoURL}
}

// RenderTest devuelve el HTML del correo de prueba de notificaciones.
func (r *Renderer) RenderTest(companyName string) (string, error) {
	if companyName == "" {
		companyName = "Sua empresa"
	}
	var buf bytes.Buffer
	err := r.test.Execute(&buf, struct {
		CompanyName string
		LogoURL     string
	}{companyName, r.logoURL})
	if err != nil {
		return "", fmt.Errorf("render correo de prueba: %w", err)
	}
	return buf.String(), nil
}

// Render devuelve el HTML del resumen. Los valores de los registros se escapan.
func (r *Renderer) Render(d *TenantDigest) (string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, struct {
		*TenantDigest
		AppURL  string
		LogoURL string
	}{d, r.appURL, r.logoURL})
	if err != nil {
		return "", fmt.Errorf("render resumen: %w", err)
	}
	return buf.String(), nil
}

// Situation texto legible del desplazamiento usado en la tabla del resumen.
func Situation(offset int) string {
	switch {
	case offset < 0:
		return "VENCIDO"
	case offset == 0:
		return "Vence HOJE"
	default:
		return fmt.Sprintf("Vence em %d dia(s)", offset)
	}
}

func brDate(iso string) string {
	t, ok := expiry.ParseDate(iso)
	if !ok {
		return iso
	}
	return t.Format("02/01/2006")
}

const digestTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8" />
<title>Resumo diário de vencimentos</title>
</head>
<body style="font-family:Arial,Helvetica,sans-serif;background:#f4f6f8;margin:0;padding:24px;color:#222;">
<div style="max-width:720px;margin:0 auto;background:#fff;border-radius:8px;padding:24px;">
  {{- if .LogoURL}}
  <div style="text-align:center;margin-bottom:16px;"><img src="{{.LogoURL}}" alt="SegVenc" style="max-height:48px;" /></div>
  {{- end}}
  <h1 style="font-size:20px;color:#1d3557;">Resumo diário de vencimentos{{if .CompanyName}} – {{.CompanyName}}{{end}}</h1>
  <p>Bom dia!</p>
  <p><strong>Resumo de vencimentos (colaboradores afetados):</strong></p>
  <ul>
    <li><strong>Vencidos:</strong> {{.Overdue.Employees}} colaborador(es) ({{.Overdue.Count}} item(ns))</li>
    <li><strong>Vence HOJE:</strong> {{.DueToday.Employees}} colaborador(es) ({{.DueToday.Count}} item(ns))</li>
    <li><strong>A vencer em até 30 dias:</strong> {{.DueSoon.Employees}} colaborador(es) ({{.DueSoon.Count}} item(ns))</li>
  </ul>
  <p><strong>Total geral:</strong> {{.Employees}} colaborador(es), {{.Total}} item(ns)</p>
  <table style="border-collapse:collapse;font-size:14px;margin-top:18px;">
    <thead>
      <tr style="background:#f2f2f2;">
        <th style="padding:6px;border:1px solid #ccc;">Colaborador</th>
        <th style="padding:6px;border:1px solid #ccc;">Tipo</th>
        <th style="padding:6px;border:1px solid #ccc;">Exame/Curso</th>
        <th style="padding:6px;border:1px solid #ccc;">Vencimento</th>
        <th style="padding:6px;border:1px solid #ccc;">Situação</th>
        <th style="padding:6px;border:1px solid #ccc;">Status</th>
      </tr>
    </thead>
    <tbody>
    {{- range .Items}}
      <tr>
        <td style="padding:6px;border:1px solid #ccc;">{{.EmployeeName}}</td>
        <td style="padding:6px;border:1px solid #ccc;">{{.Kind}}</td>
        <td style="padding:6px;border:1px solid #ccc;">{{.CertificationName}}</td>
        <td style="padding:6px;border:1px solid #ccc;">{{brDate .DueDate}}</td>
        <td style="padding:6px;border:1px solid #ccc;">{{situation .Offset}}</td>
        <td style="padding:6px;border:1px solid #ccc;">{{.Note}}</td>
      </tr>
    {{- end}}
    </tbody>
  </table>
  {{- if .AppURL}}
  <p style="text-align:center;margin-top:24px;">
    <a href="{{.AppURL}}" style="background:#1d3557;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none;">Acessar o Painel</a>
  </p>
  {{- end}}
  <p style="margin-top:28px;text-align:center;font-size:12px;color:#777;">
    E-mail automático enviado pelo sistema.<br />
    <strong style="color:#1d3557;">SegVenc – Gestão Inteligente de Vencimentos</strong>
  </p>
</div>
</body>
</html>
`

const testTemplate = `<div style="font-family:Arial,Helvetica,sans-serif;font-size:14px;color:#0f172a;">
  {{- if .LogoURL}}
  <img src="{{.LogoURL}}" alt="SegVenc" style="max-height:40px;" />
  {{- end}}
  <h2>Teste de e-mail do SegVenc</h2>
  <p>Olá,</p>
  <p>Este é um <strong>e-mail de teste</strong> enviado pelo SegVenc para a empresa <strong>{{.CompanyName}}</strong>.</p>
  <p>Se você recebeu esta mensagem, as notificações por e-mail estão funcionando corretamente.</p>
  <hr style="margin:16px 0;border:none;border-top:1px solid #e5e7eb;" />
  <p style="font-size:12px;color:#6b7280;">SegVenc · Gestão de vencimentos de exames, cursos e ASO</p>
</div>
`
