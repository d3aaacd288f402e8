package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// StatusChange is the content of a review status notification
type StatusChange struct {
	ContractTitle  string
	NewStatusLabel string
	UpdatedBy      string
	UpdatedAt      time.Time
	Link           string
}

// DigestItem is one line of the deadline digest
type DigestItem struct {
	Title         string
	Partner       string
	Kind          string
	DueDate       string
	DaysRemaining int
	Link          string
}

// Digest is the periodic deadline overview for the legal team
type Digest struct {
	Requests  []DigestItem
	Contracts []DigestItem
	Lookahead int
	AppURL    string
}

// displayZone is the time zone used in rendered timestamps
var displayZone = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*60*60)
}()

var funcs = template.FuncMap{
	"vnTime": func(t time.Time) string { return t.In(displayZone).Format("15:04:05 02/01/2006") },
}

var statusChangeTmpl = template.Must(template.New("status").Funcs(funcs).Parse(`
<div style="font-family: 'Segoe UI', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 24px; background: #fff; border-radius: 12px; border: 1px solid #e5e7eb;">
  <div style="text-align: center; margin-bottom: 24px;">
    <h2 style="color: #ea580c; margin: 0;">⚖️ LegalHub</h2>
    <p style="color: #6b7280; font-size: 14px;">Thông báo cập nhật trạng thái hợp đồng</p>
  </div>
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 16px 0;" />
  <table style="width: 100%; font-size: 14px; color: #374151;">
    <tr><td style="padding: 8px 0; font-weight: 600; width: 140px;">Tên hợp đồng:</td><td style="padding: 8px 0;">{{.ContractTitle}}</td></tr>
    <tr><td style="padding: 8px 0; font-weight: 600;">Trạng thái mới:</td><td style="padding: 8px 0;"><span style="background: #fef3c7; color: #d97706; padding: 4px 12px; border-radius: 6px; font-weight: 600;">{{.NewStatusLabel}}</span></td></tr>
    <tr><td style="padding: 8px 0; font-weight: 600;">Người xử lý:</td><td style="padding: 8px 0;">{{.UpdatedBy}}</td></tr>
    <tr><td style="padding: 8px 0; font-weight: 600;">Thời gian:</td><td style="padding: 8px 0;">{{vnTime .UpdatedAt}}</td></tr>
  </table>
  {{if .Link}}<div style="text-align: center; margin: 24px 0;"><a href="{{.Link}}" style="background: #ea580c; color: #fff; padding: 10px 24px; border-radius: 6px; text-decoration: none;">Xem yêu cầu</a></div>{{end}}
  <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 16px 0;" />
  <p style="font-size: 12px; color: #9ca3af; text-align: center;">Email tự động từ hệ thống LegalHub. Vui lòng đăng nhập để xem chi tiết.</p>
</div>
`))

var digestTmpl = template.Must(template.New("digest").Parse(`
<div style="font-family: 'Segoe UI', Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 24px;">
  <h2 style="color: #ea580c;">⚖️ LegalHub: Hạn xử lý trong {{.Lookahead}} ngày tới</h2>
  {{if .Requests}}
  <h3>Yêu cầu review ({{len .Requests}})</h3>
  <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
    <tr style="background: #f5f5f5;"><th align="left">Hợp đồng</th><th align="left">Đối tác</th><th align="left">Trạng thái</th><th align="left">Hạn</th><th>Còn lại</th></tr>
    {{range .Requests}}<tr style="border-bottom: 1px solid #eee;"><td>{{if .Link}}<a href="{{.Link}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td><td>{{.Partner}}</td><td>{{.Kind}}</td><td>{{.DueDate}}</td><td align="center">{{.DaysRemaining}} ngày</td></tr>
    {{end}}
  </table>
  {{end}}
  {{if .Contracts}}
  <h3>Hợp đồng sắp hết hạn ({{len .Contracts}})</h3>
  <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
    <tr style="background: #f5f5f5;"><th align="left">Hợp đồng</th><th align="left">Đối tác</th><th align="left">Loại</th><th align="left">Ngày</th><th>Còn lại</th></tr>
    {{range .Contracts}}<tr style="border-bottom: 1px solid #eee;"><td>{{if .Link}}<a href="{{.Link}}">{{.Title}}</a>{{else}}{{.Title}}{{end}}</td><td>{{.Partner}}</td><td>{{.Kind}}</td><td>{{.DueDate}}</td><td align="center">{{.DaysRemaining}} ngày</td></tr>
    {{end}}
  </table>
  {{end}}
  {{if .AppURL}}<p style="text-align: center; margin: 24px 0;"><a href="{{.AppURL}}">Mở LegalHub</a></p>{{end}}
  <p style="font-size: 12px; color: #9ca3af; text-align: center;">Email tự động từ hệ thống LegalHub.</p>
</div>
`))

// StatusChangeMessage renders the notification sent to a requester
func StatusChangeMessage(to string, data StatusChange) (Message, error) {
	var buf bytes.Buffer
	if err := statusChangeTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("failed to render status email: %w", err)
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("[LegalHub] Cập nhật: %s - %s", data.ContractTitle, data.NewStatusLabel),
		HTML:    buf.String(),
	}, nil
}

// DigestMessage renders the deadline digest for the given recipients
func DigestMessage(to []string, data Digest) (Message, error) {
	var buf bytes.Buffer
	if err := digestTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("failed to render digest email: %w", err)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("[LegalHub] %d hạn xử lý sắp đến", len(data.Requests)+len(data.Contracts)),
		HTML:    buf.String(),
	}, nil
}
