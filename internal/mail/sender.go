package mail

import (
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"newstrack/internal/config"
	"newstrack/internal/logger"
	"newstrack/internal/models"
)

const (
	smtpTimeout = 15 * time.Second
	sslSMTPPort = 465
)

// Sender delivers the analysis report over SMTP.
type Sender struct {
	cfg *config.Config
}

func NewSender(cfg *config.Config) *Sender {
	return &Sender{cfg: cfg}
}

// SendReport builds and sends the daily report. Missing configuration
// or an empty record set is a silent no-op.
func (s *Sender) SendReport(records []models.AnalysisRecord) error {
	if !s.cfg.MailEnabled() {
		logger.Log.Debug("未配置 SMTP，跳过邮件")
		return nil
	}
	if len(records) == 0 {
		logger.Log.Debug("没有可发送的分析记录，跳过邮件")
		return nil
	}

	subject := fmt.Sprintf("财经新闻分析日报 %s", time.Now().Format("2006-01-02"))
	msg, err := buildMessage(s.cfg.SMTPFrom, s.cfg.SMTPTo, subject,
		BuildPlainReport(records), BuildHTMLReport(records))
	if err != nil {
		return fmt.Errorf("mail: build message: %w", err)
	}

	toList := splitRecipients(s.cfg.SMTPTo)
	if err := s.send(toList, msg); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	logger.Log.WithField("to", s.cfg.SMTPTo).Info("日报邮件已发送")
	return nil
}

func splitRecipients(to string) []string {
	parts := strings.Split(to, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// buildMessage assembles a multipart/alternative message so clients
// without HTML rendering still get a readable plain-text body.
func buildMessage(from, to, subject, plainBody, htmlBody string) ([]byte, error) {
	var b strings.Builder
	var body strings.Builder

	writer := multipart.NewWriter(&body)

	plainPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := plainPart.Write([]byte(plainBody)); err != nil {
		return nil, err
	}

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", writer.Boundary())
	b.WriteString(body.String())
	return []byte(b.String()), nil
}

func (s *Sender) send(to []string, msg []byte) error {
	port := s.cfg.SMTPPort
	addr := net.JoinHostPort(s.cfg.SMTPServer, strconv.Itoa(port))

	var conn net.Conn
	var err error
	if port == sslSMTPPort {
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: smtpTimeout}, "tcp", addr,
			&tls.Config{ServerName: s.cfg.SMTPServer})
	} else {
		conn, err = net.DialTimeout("tcp", addr, smtpTimeout)
	}
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.SMTPServer)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	defer client.Close()

	if port != sslSMTPPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.cfg.SMTPServer}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if s.cfg.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPServer)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return client.Quit()
}
