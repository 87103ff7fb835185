package mail

import (
	"bytes"
	"html/template"
)

const newPostTpl = `<!DOCTYPE html>
<html>
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,Noto Sans,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border-width:1px;border-style:solid;border-radius:.25rem;margin:40px auto;padding:20px;width:550px;border-color:rgb(14,165,233)">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:400;text-align:center;margin:30px 0">New post: <strong>{{.Title}}</strong></h1>
        {{if .Excerpt}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:12px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">{{.Excerpt}}</p></td></tr></tbody>
        </table>
        {{end}}
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="text-align:center;margin:32px 0">
          <tbody><tr><td>
            <a href="{{.URL}}" target="_blank" style="line-height:100%;text-decoration:none;display:inline-block;max-width:100%;padding:12px 20px;background-color:rgb(14,165,233);border-radius:.25rem;color:#fff;font-size:12px;font-weight:600;text-align:center">Read the post</a>
          </td></tr></tbody>
        </table>
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">You receive this email because you subscribed to this blog.</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

var newPostTemplate = template.Must(template.New("new_post").Parse(newPostTpl))

// NewPostData fills the published-post notification template.
type NewPostData struct {
	Title   string
	Excerpt string
	URL     string
}

// RenderNewPost builds the HTML body announcing a published post.
func RenderNewPost(data NewPostData) (string, error) {
	var buf bytes.Buffer
	if err := newPostTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
