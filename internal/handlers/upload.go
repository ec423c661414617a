package handlers

import (
	"fmt"
	"io"

	"github.com/estudiolex/subastas-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

var allowedPDFTypes = map[string]bool{
	"application/pdf": true,
}

// collectFiles validates and buffers every multipart file under the
// given field. The returned message is empty on success and user-facing
// (Spanish) on rejection.
func collectFiles(c *fiber.Ctx, field string, maxSize int64, allowed map[string]bool) ([]storage.File, string) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, "Se esperaba un formulario multipart"
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return nil, ""
	}

	files := make([]storage.File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxSize {
			return nil, fmt.Sprintf("El archivo %s supera el tamaño máximo permitido", fh.Filename)
		}
		contentType := fh.Header.Get("Content-Type")
		if !allowed[contentType] {
			return nil, fmt.Sprintf("Formato no permitido: %s", contentType)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, "No se pudo leer el archivo"
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, "No se pudo leer el archivo"
		}

		files = append(files, storage.File{
			Data:        data,
			Filename:    fh.Filename,
			ContentType: contentType,
		})
	}
	return files, ""
}
