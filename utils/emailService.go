package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"abhyasi/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Abhyasi <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0F766E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
			.content h2 { color: #0F766E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.btn { display: inline-block; padding: 12px 24px; background-color: #0F766E; color: #FFFFFF; text-decoration: none; border-radius: 4px; font-weight: bold; margin-top: 20px; }
			.info-box { background: #ECFDF5; padding: 15px; border-radius: 4px; border-left: 4px solid #0F766E; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>ABHYASI</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Abhyasi. Keep practicing.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome aboard! Your account is ready. Pick a course or a profession track and start with module one.</p>
	`, name)
	go SendEmail([]string{email}, "Welcome to Abhyasi", getEmailTemplate("Welcome!", body))
}

// 2. Course completed
func SendCourseCompletionEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have completed every module of <strong>%s</strong>. Great work!</p>
		<div class="info-box">Your certificate is being generated and will appear on your profile shortly.</div>
	`, name, courseTitle)
	go SendEmail([]string{email}, "Course completed: "+courseTitle, getEmailTemplate("Course Completed", body))
}

// 3. Profession completed
func SendProfessionCompletionEmail(email, name, professionName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You have finished the full <strong>%s</strong> track. That is every course, every module.</p>
		<div class="info-box">Your profession certificate is being generated and will appear on your profile shortly.</div>
	`, name, professionName)
	go SendEmail([]string{email}, "Profession completed: "+professionName, getEmailTemplate("Profession Completed", body))
}

// 4. Certificate ready
func SendCertificateEmail(email, name, entityTitle, pdfURL string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your certificate for <strong>%s</strong> is ready.</p>
		<a class="btn" href="%s">Download Certificate</a>
	`, name, entityTitle, pdfURL)
	go SendEmail([]string{email}, "Your certificate is ready", getEmailTemplate("Certificate Ready", body))
}
