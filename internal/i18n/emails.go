package i18n

import (
	"strconv"
	"strings"
)

type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

type emailStrings struct {
	LoginCodeSubject string
	LoginCodeText    string
	LoginCodeHTML    string

	PasswordResetSubject string
	PasswordResetText    string
	PasswordResetHTML    string
}

var emailTranslations = map[string]emailStrings{
	"es": {
		LoginCodeSubject: "Tu código de verificación de Mineconect",
		LoginCodeText:    "Tu código de verificación es {code}. Es válido por {minutes} minutos.",
		LoginCodeHTML: "<p>Verificación de inicio de sesión</p>" +
			"<p>Usa el siguiente código para completar tu inicio de sesión.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>El código expira en {minutes} minutos.</p>" +
			"<p>Si no intentaste iniciar sesión, ignora este correo.</p>",

		PasswordResetSubject: "Restablece tu contraseña de Mineconect",
		PasswordResetText: "Restablece tu contraseña: {link}\n" +
			"El enlace expira en {hours} hora(s).\n" +
			"Si no solicitaste esto, ignora este correo.",
		PasswordResetHTML: "<p>Restablecimiento de contraseña</p>" +
			"<p>Haz clic en el enlace para restablecer tu contraseña.</p>" +
			"<p><a href=\"{link}\">Restablecer contraseña</a></p>" +
			"<p>El enlace expira en {hours} hora(s).</p>" +
			"<p>Si no solicitaste esto, ignora este correo.</p>",
	},
	"en": {
		LoginCodeSubject: "Your Mineconect verification code",
		LoginCodeText:    "Your verification code is {code}. It is valid for {minutes} minutes.",
		LoginCodeHTML: "<p>Sign-in verification</p>" +
			"<p>Use the code below to complete your sign-in.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>The code expires in {minutes} minutes.</p>" +
			"<p>If you did not try to sign in, ignore this email.</p>",

		PasswordResetSubject: "Reset your Mineconect password",
		PasswordResetText: "Reset your password: {link}\n" +
			"The link expires in {hours} hour(s).\n" +
			"If you did not request this, ignore this email.",
		PasswordResetHTML: "<p>Password reset</p>" +
			"<p>Click the link to reset your password.</p>" +
			"<p><a href=\"{link}\">Reset password</a></p>" +
			"<p>The link expires in {hours} hour(s).</p>" +
			"<p>If you did not request this, ignore this email.</p>",
	},
}

func emailStringsForLocale(locale string) emailStrings {
	key := NormalizeLocale(locale)
	if val, ok := emailTranslations[key]; ok {
		return val
	}
	return emailTranslations[DefaultLocale]
}

func renderTemplate(tmpl string, values map[string]string) string {
	if tmpl == "" || len(values) == 0 {
		return tmpl
	}

	replacements := make([]string, 0, len(values)*2)
	for key, value := range values {
		replacements = append(replacements, "{"+key+"}", value)
	}
	return strings.NewReplacer(replacements...).Replace(tmpl)
}

func LoginCodeEmail(locale, code string, minutes int) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{
		"code":    code,
		"minutes": strconv.Itoa(minutes),
	}
	return EmailContent{
		Subject: templates.LoginCodeSubject,
		Text:    renderTemplate(templates.LoginCodeText, values),
		HTML:    renderTemplate(templates.LoginCodeHTML, values),
	}
}

func PasswordResetEmail(locale, link string, hours int) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{
		"link":  link,
		"hours": strconv.Itoa(hours),
	}
	return EmailContent{
		Subject: templates.PasswordResetSubject,
		Text:    renderTemplate(templates.PasswordResetText, values),
		HTML:    renderTemplate(templates.PasswordResetHTML, values),
	}
}
