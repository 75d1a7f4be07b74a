package cbhttp

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"

	lhttp "github.com/svmpsp/bad-framework/pkg/http"
)

// FormFile is one file part of a multipart form body.
type FormFile struct {
	Field    string
	Filename string
	Content  []byte
}

func FormFiles(files []FormFile) RequestOption {
	return Form(nil, files)
}

func Form(fields map[string]string, files []FormFile) RequestOption {
	return func(r *Request) *Request {
		requestBody := &bytes.Buffer{}
		writer := multipart.NewWriter(requestBody)
		// Force a boundary for clients that don't understand not having one
		boundary := "---------------------"
		writer.SetBoundary(boundary)

		// Fill in the form fields
		for key, val := range fields {
			if err := writer.WriteField(key, val); err != nil {
				r.HErr = &lhttp.HttpError{Err: err}
				return r
			}
		}

		// Fill in the file parts, typed by filename so the server can tell a
		// metrics document from a plot image.
		for _, file := range files {
			header := textproto.MIMEHeader{}
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
			header.Set("Content-Type", lhttp.InferContentType(file.Filename, file.Content))
			part, err := writer.CreatePart(header)
			if err != nil {
				r.HErr = &lhttp.HttpError{Err: err}
				return r
			}
			if _, err := part.Write(file.Content); err != nil {
				r.HErr = &lhttp.HttpError{Err: err}
				return r
			}
		}

		// Close the form body
		if err := writer.Close(); err != nil {
			r.HErr = &lhttp.HttpError{Err: err}
			return r
		}

		return r.Options(Body(requestBody), AddHeader("content-type", fmt.Sprintf("multipart/form-data; boundary=%s", boundary)))
	}
}
