package files

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// FileService resolves Telegram file ids to download URLs and raw bytes.
type FileService struct {
	botAPI *tgbotapi.BotAPI
}

func NewFileService(botAPI *tgbotapi.BotAPI) *FileService {
	return &FileService{
		botAPI: botAPI,
	}
}

// ResolveURL returns the api.telegram.org download link for a file id.
func (fs *FileService) ResolveURL(fileID string) (string, error) {
	file, err := fs.botAPI.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("FileService.ResolveURL: cannot get file: %w", err)
	}

	return file.Link(fs.botAPI.Token), nil
}

// Download fetches the file content and returns it together with a
// generated file name carrying the original extension.
func (fs *FileService) Download(fileID string) ([]byte, string, error) {
	file, err := fs.botAPI.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("FileService.Download: cannot get file: %w", err)
	}

	fileExt := filepath.Ext(file.FilePath)
	if fileExt == "" {
		fileExt = ".jpg"
	}

	fileName := fmt.Sprintf("%s%s", uuid.New().String(), fileExt)

	resp, err := http.Get(file.Link(fs.botAPI.Token))
	if err != nil {
		return nil, "", fmt.Errorf("FileService.Download: cannot download file: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("FileService.Download: unexpected status %s", resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("FileService.Download: cannot read file: %w", err)
	}

	return content, fileName, nil
}
