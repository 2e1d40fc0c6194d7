package create_branch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SportHub/internal/api/handlers"
	"github.com/m04kA/SMC-SportHub/internal/api/middleware"
	replaceBranches "github.com/m04kA/SMC-SportHub/internal/usecase/replace_branches"
)

const (
	msgMissingActor   = "требуется авторизация"
	msgInvalidForm    = "некорректная multipart форма"
	msgMissingData    = "поле data обязательно"
	msgInvalidData    = "поле data должно содержать JSON массив сертификатов"
	msgInvalidField   = "неизвестное поле файла, ожидается coach-certificate[<sportId>]"
	msgTooLarge       = "слишком большой запрос"
	msgCoachNotFound  = "профиль тренера не найден"
	msgValidation     = "некорректный набор сертификатов"
	msgBranchesStored = "сертификаты сохранены и отправлены на проверку"

	dataField         = "data"
	certificatePrefix = "coach-certificate["
	sniffLen          = 512
)

var errBadFieldName = errors.New("bad certificate field name")

type Handler struct {
	useCase       ReplaceBranchesUseCase
	maxFormMemory int64
	maxBodyBytes  int64
	parseTimeout  time.Duration
	logger        Logger
}

// NewHandler создает обработчик загрузки сертификатов
// maxBodyBytes ограничивает всё тело запроса, parseTimeout время чтения формы
func NewHandler(useCase ReplaceBranchesUseCase, maxFormMemory, maxBodyBytes int64, parseTimeout time.Duration, logger Logger) *Handler {
	return &Handler{
		useCase:       useCase,
		maxFormMemory: maxFormMemory,
		maxBodyBytes:  maxBodyBytes,
		parseTimeout:  parseTimeout,
		logger:        logger,
	}
}

// Handle POST /api/v1/coach/create-branch
// Поле data: JSON массив [{sportId, branchOrder, certificate?}],
// файлы: coach-certificate[<sportId>] для каждого сертификата без certificate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	// Таймаут чтения тела, иначе медленный клиент держит соединение
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(time.Now().Add(h.parseTimeout)); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Warn("POST /coach/create-branch - Failed to set read deadline: %v", err)
	}
	defer func() { _ = rc.SetReadDeadline(time.Time{}) }()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := r.ParseMultipartForm(h.maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, os.ErrDeadlineExceeded):
			h.logger.Warn("POST /coach/create-branch - Parse timeout: user_id=%d", actor.UserID)
			handlers.RespondTimeout(w)
		case errors.As(err, &tooLarge):
			handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		default:
			h.logger.Warn("POST /coach/create-branch - Invalid form: %v", err)
			handlers.RespondBadRequest(w, msgInvalidForm)
		}
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.Warn("POST /coach/create-branch - Failed to remove temp files: %v", err)
		}
	}()

	descriptors, msg := parseDescriptors(r.MultipartForm)
	if msg != "" {
		handlers.RespondBadRequest(w, msg)
		return
	}

	files, closeFiles, err := openUploads(r.MultipartForm)
	defer closeFiles()
	if err != nil {
		h.logger.Warn("POST /coach/create-branch - Invalid files: %v", err)
		if errors.Is(err, errBadFieldName) {
			handlers.RespondBadRequest(w, msgInvalidField)
			return
		}
		handlers.RespondBadRequest(w, msgInvalidForm)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &replaceBranches.Request{
		UserID:      actor.UserID,
		Descriptors: descriptors,
		Files:       files,
	})
	if err != nil {
		switch {
		case errors.Is(err, replaceBranches.ErrCoachNotFound):
			h.logger.Warn("POST /coach/create-branch - Coach not found: user_id=%d", actor.UserID)
			handlers.RespondNotFound(w, msgCoachNotFound)

		case errors.Is(err, replaceBranches.ErrValidation):
			h.logger.Warn("POST /coach/create-branch - Validation failed: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondBadRequest(w, handlers.DetailMessage(err, replaceBranches.ErrValidation, msgValidation))

		default:
			h.logger.Error("POST /coach/create-branch - Failed to replace branches: user_id=%d, error=%v", actor.UserID, err)
			handlers.RespondInternalErrorWithCause(w, err)
		}
		return
	}

	h.logger.Info("POST /coach/create-branch - Branches replaced: coach_id=%d, count=%d", result.CoachID, len(result.Branches))
	handlers.RespondMessage(w, http.StatusCreated, msgBranchesStored, fromUseCaseResponse(result))
}

func parseDescriptors(form *multipart.Form) ([]replaceBranches.Descriptor, string) {
	values := form.Value[dataField]
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return nil, msgMissingData
	}

	var descriptors []replaceBranches.Descriptor
	decoder := json.NewDecoder(strings.NewReader(values[0]))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&descriptors); err != nil {
		return nil, msgInvalidData
	}
	return descriptors, ""
}

// openUploads открывает файлы формы; тип содержимого определяется по первым байтам,
// а не по заголовку клиента
func openUploads(form *multipart.Form) ([]replaceBranches.Upload, func(), error) {
	var (
		uploads []replaceBranches.Upload
		opened  []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for field, headers := range form.File {
		sportID, err := sportIDFromField(field)
		if err != nil {
			return nil, closeAll, err
		}
		for _, fh := range headers {
			file, err := fh.Open()
			if err != nil {
				return nil, closeAll, fmt.Errorf("open %s: %w", field, err)
			}
			opened = append(opened, file)

			contentType, err := sniffContentType(file)
			if err != nil {
				return nil, closeAll, fmt.Errorf("read %s: %w", field, err)
			}

			uploads = append(uploads, replaceBranches.Upload{
				SportID:     sportID,
				FileName:    fh.Filename,
				ContentType: contentType,
				Size:        fh.Size,
				Content:     file,
			})
		}
	}
	return uploads, closeAll, nil
}

func sportIDFromField(field string) (int64, error) {
	if !strings.HasPrefix(field, certificatePrefix) || !strings.HasSuffix(field, "]") {
		return 0, fmt.Errorf("%w: %q", errBadFieldName, field)
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(field, certificatePrefix), "]")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errBadFieldName, field)
	}
	return id, nil
}

func sniffContentType(file multipart.File) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(buf[:n])
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return contentType, nil
}
