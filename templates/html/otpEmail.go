package templates

import (
	"fmt"
	"html"
)

// OtpEmail generates the branded HTML for a one-time login code email.
// Name and code are HTML-escaped before interpolation.
func OtpEmail(name, code string) string {
	safeName := html.EscapeString(name)
	safeCode := html.EscapeString(code)

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>Your login code</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f5f5f5; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background-color: #e53935; padding: 40px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 24px; font-weight: 700; }
    .content { padding: 40px 30px; color: #333; line-height: 1.6; font-size: 15px; }
    .code { font-size: 32px; font-weight: 700; letter-spacing: 8px; text-align: center; color: #e53935; padding: 20px 0; }
    .footer { padding: 30px; text-align: center; color: #888; font-size: 12px; border-top: 1px solid #eee; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Accident Tracker</h1>
    </div>
    <div class="content">
      <p>Hi %s,</p>
      <p>Use this code to finish signing in. It expires in 5 minutes.</p>
      <div class="code">%s</div>
      <p>If you did not request this code, you can ignore this email.</p>
    </div>
    <div class="footer">
      <p>&copy; Accident Tracker</p>
    </div>
  </div>
</body>
</html>`, safeName, safeCode)
}
