package certificate

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/fogleman/gg"
	"github.com/go-resty/resty/v2"
	"github.com/jung-kurt/gofpdf"
)

// A4 landscape, in points
const (
	certWidth  = 842
	certHeight = 595
)

// Theme colors
const (
	colorPrimary = "#09232F" // dark blue
	colorAccent  = "#1BBDC6" // turquoise
	colorText    = "#333333"
)

// Renderer draws certificate PDFs and images and uploads them to
// Cloudinary. It is the default Issuer implementation.
type Renderer struct {
	client       *resty.Client
	cloudName    string
	uploadPreset string
	folder       string
	assetsDir    string
}

func NewRenderer(cloudName, uploadPreset, folder, assetsDir string) *Renderer {
	return &Renderer{
		client:       resty.New().SetTimeout(30 * time.Second),
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		folder:       folder,
		assetsDir:    assetsDir,
	}
}

// Issue renders the PDF and PNG artifacts and uploads both. The PDF is the
// primary artifact; a failed image upload degrades to a PDF-only result.
func (r *Renderer) Issue(ctx context.Context, req Request) (Issued, error) {
	number := CertificateID(req.UserID, req.EntityID, time.Now())

	pdfBytes, err := r.renderPDF(req, number)
	if err != nil {
		return Issued{}, fmt.Errorf("render certificate pdf: %w", err)
	}
	pdfURL, err := r.upload(ctx, number+".pdf", pdfBytes)
	if err != nil {
		return Issued{}, fmt.Errorf("upload certificate pdf: %w", err)
	}

	issued := Issued{PdfURL: pdfURL, Number: number}

	imgBytes, err := r.renderImage(req, number)
	if err == nil {
		if imgURL, upErr := r.upload(ctx, number+".png", imgBytes); upErr == nil {
			issued.ImageURL = imgURL
		}
	}

	return issued, nil
}

func (r *Renderer) renderPDF(req Request, number string) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: certWidth, Ht: certHeight},
	})
	pdf.AddPage()

	// Border
	pdf.SetDrawColor(27, 189, 198)
	pdf.SetLineWidth(2)
	pdf.Rect(40, 40, certWidth-80, certHeight-80, "D")

	// Logo is optional; registering a missing file would poison the pdf state
	logo := filepath.Join(r.assetsDir, "abhyasi-logo.png")
	if _, err := os.Stat(logo); err == nil {
		pdf.ImageOptions(logo, certWidth/2-100, 60, 200, 0, false, gofpdf.ImageOptions{}, 0, "")
	}

	centerText := func(y float64, size float64, style, rgb, text string) {
		pdf.SetFont("Helvetica", style, size)
		var cr, cg, cb int
		fmt.Sscanf(rgb, "#%02x%02x%02x", &cr, &cg, &cb)
		pdf.SetTextColor(cr, cg, cb)
		pdf.SetXY(0, y)
		pdf.CellFormat(certWidth, size, text, "", 0, "C", false, 0, "")
	}

	centerText(160, 36, "B", colorPrimary, "Certificate of Completion")
	centerText(240, 24, "", colorText, "This is to certify that")
	centerText(280, 32, "B", colorAccent, orDefault(req.UserName, "Unnamed Student"))
	centerText(340, 24, "", colorText, "has successfully completed the "+req.Scope)
	centerText(380, 28, "B", colorPrimary, orDefault(req.EntityTitle, "Untitled"))

	dateStr := req.CompletedAt.Format("January 2, 2006")
	centerText(460, 16, "", colorText, "Issued on "+dateStr)
	centerText(530, 10, "", "#777777", "Certificate ID: "+number)
	centerText(550, 10, "", "#999999", "Verify this certificate at abhyasi.com/verify")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderImage(req Request, number string) ([]byte, error) {
	dc := gg.NewContext(certWidth, certHeight)

	dc.SetHexColor("#ffffff")
	dc.Clear()

	dc.SetHexColor(colorAccent)
	dc.SetLineWidth(2)
	dc.DrawRectangle(40, 40, certWidth-80, certHeight-80)
	dc.Stroke()

	font := filepath.Join(r.assetsDir, "fonts", "Helvetica.ttf")

	drawCentered := func(y, size float64, hex, text string) {
		if err := dc.LoadFontFace(font, size); err == nil {
			dc.SetHexColor(hex)
			dc.DrawStringAnchored(text, certWidth/2, y, 0.5, 0.5)
		}
	}

	drawCentered(180, 36, colorPrimary, "Certificate of Completion")
	drawCentered(255, 24, colorText, "This is to certify that")
	drawCentered(300, 32, colorAccent, orDefault(req.UserName, "Unnamed Student"))
	drawCentered(355, 24, colorText, "has successfully completed the "+req.Scope)
	drawCentered(400, 28, colorPrimary, orDefault(req.EntityTitle, "Untitled"))
	drawCentered(470, 16, colorText, "Issued on "+req.CompletedAt.Format("January 2, 2006"))
	drawCentered(540, 10, "#777777", "Certificate ID: "+number)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type cloudinaryUploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r *Renderer) upload(ctx context.Context, filename string, data []byte) (string, error) {
	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", r.cloudName)

	var result cloudinaryUploadResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(data)).
		SetFormData(map[string]string{
			"upload_preset": r.uploadPreset,
			"folder":        r.folder,
		}).
		SetResult(&result).
		Post(url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		if result.Error.Message != "" {
			return "", fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
		}
		return "", fmt.Errorf("cloudinary upload failed: %s", resp.Status())
	}
	return result.SecureURL, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
