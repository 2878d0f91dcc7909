package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"comesapi/internal/ai"
	"comesapi/internal/model"
	"comesapi/internal/storage"
)

// Placeholder used in transcript reports for fields the model did not return.
const notProvided = "未提供"

// TranscriptVerifier is the transcript-verification capability. Two
// variants exist: the live service and UnavailableVerifier.
type TranscriptVerifier interface {
	// VerifyTranscript extracts the transcript files, prompts the model
	// (walking the configured fallback list), and returns the parsed
	// result with verification metadata merged in. It returns an error
	// only when every configured model fails.
	VerifyTranscript(ctx context.Context, files map[string]model.FileInfo, uploadType string) (map[string]any, error)

	// GenerateStructuredTranscript renders the verification result into
	// the Markdown report. Pure formatting; never fails outward.
	GenerateStructuredTranscript(result map[string]any) string
}

// TranscriptService verifies academic transcripts with Gemini, trying an
// ordered list of models until one answers.
type TranscriptService struct {
	gen       ai.Generator
	store     storage.Storage
	extractor TextExtractor
	models    []string
	log       *zap.Logger
}

// NewTranscriptService constructs the live verifier. models must be
// non-empty; the first entry is the preferred model.
func NewTranscriptService(gen ai.Generator, store storage.Storage, extractor TextExtractor, models []string, log *zap.Logger) *TranscriptService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TranscriptService{gen: gen, store: store, extractor: extractor, models: models, log: log}
}

var _ TranscriptVerifier = (*TranscriptService)(nil)

// buildTranscriptContent assembles the prompt body. A single bilingual
// upload labels each file generically by key; separate uploads get fixed
// language headers.
func buildTranscriptContent(texts map[string]string, uploadType string) string {
	var parts []string

	switch uploadType {
	case model.UploadTypeSingle:
		keys := make([]string, 0, len(texts))
		for key := range texts {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("=== 成绩单文件: %s ===\n%s\n", key, texts[key]))
		}
	case model.UploadTypeSeparate:
		if text, ok := texts["transcript_zh"]; ok {
			parts = append(parts, fmt.Sprintf("=== 中文成绩单 ===\n%s\n", text))
		}
		if text, ok := texts["transcript_en"]; ok {
			parts = append(parts, fmt.Sprintf("=== 英文成绩单 ===\n%s\n", text))
		}
	}

	return strings.Join(parts, "\n")
}

// generateWithFallback walks the configured model list in order and
// returns the first successful response along with the model that
// produced it. When every model fails the returned error names each
// attempt.
func (s *TranscriptService) generateWithFallback(ctx context.Context, content string) (string, string, error) {
	var attempts []string
	for _, name := range s.models {
		raw, err := s.gen.Generate(ctx, name, transcriptGenConfig, transcriptPrompt, content)
		if err != nil {
			s.log.Warn("transcript model attempt failed", zap.String("model", name), zap.Error(err))
			attempts = append(attempts, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		s.log.Info("transcript model answered", zap.String("model", name))
		return raw, name, nil
	}
	return "", "", fmt.Errorf("all transcript models failed: %s", strings.Join(attempts, "; "))
}

// VerifyTranscript runs the full extract → prompt → parse pipeline for a
// transcript verification.
func (s *TranscriptService) VerifyTranscript(ctx context.Context, files map[string]model.FileInfo, uploadType string) (map[string]any, error) {
	texts := extractTexts(ctx, s.store, s.extractor, files, s.log)
	content := buildTranscriptContent(texts, uploadType)

	raw, usedModel, err := s.generateWithFallback(ctx, content)
	if err != nil {
		return nil, err
	}

	result, ok := parseModelJSON(raw)

	documentType := model.UploadTypeSeparate
	if uploadType == model.UploadTypeSingle {
		documentType = "bilingual"
	}

	sourceFiles := make([]string, 0, len(files))
	for key := range files {
		sourceFiles = append(sourceFiles, key)
	}
	sort.Strings(sourceFiles)

	if ok {
		result["metadata"] = map[string]any{
			"document_type": documentType,
			"source_files":  sourceFiles,
			"verified_at":   time.Now().Format(time.RFC3339),
			"model_used":    usedModel,
			"status":        "completed",
		}
	} else {
		s.log.Warn("verification response was not valid JSON", zap.Int("response_len", len(raw)))
		result["metadata"] = map[string]any{
			"status": "failed",
			"error":  parseErrMessage,
		}
	}

	return result, nil
}

// GenerateStructuredTranscript renders the verification result as an
// ordered sequence of Markdown sections joined by blank lines.
func (s *TranscriptService) GenerateStructuredTranscript(result map[string]any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("structured transcript rendering panicked", zap.Any("panic", r))
			out = fmt.Sprintf("生成结构化成绩单时出错: %v", r)
		}
	}()
	return renderTranscriptReport(result)
}

func renderTranscriptReport(result map[string]any) string {
	studentInfo := subMap(result, "student_info")
	semesters := subList(result, "semesters")
	academicSummary := subMap(result, "academic_summary")

	var sections []string

	sections = append(sections, fmt.Sprintf(`# 成绩单认证报告

## 一、 学生基本信息
- **中文姓名**: %s
- **英文姓名**: %s
- **学号**: %s
- **院校**: %s
- **专业**: %s
- **学位级别**: %s
- **预计毕业时间**: %s
- **总平均绩点 (GPA)**: %s / %s`,
		field(studentInfo, "name_zh", notProvided),
		field(studentInfo, "name_en", notProvided),
		field(studentInfo, "student_id", notProvided),
		field(studentInfo, "university", notProvided),
		field(studentInfo, "major", notProvided),
		field(studentInfo, "degree_level", notProvided),
		field(studentInfo, "graduation_date", notProvided),
		field(studentInfo, "overall_gpa", notProvided), field(studentInfo, "gpa_scale", notProvided),
	))

	if len(semesters) > 0 {
		sections = append(sections, "## 二、 学期课程信息")
		for i, semester := range semesters {
			sections = append(sections, renderSemester(i+1, semester))
		}
	}

	sections = append(sections, fmt.Sprintf(`## 三、 学业总览
- **总学分**: %s
- **总课程数**: %s
- **学业状态**: %s
- **认证备注**: %s`,
		field(academicSummary, "total_credits", "0"),
		field(academicSummary, "total_courses", "0"),
		field(academicSummary, "academic_standing", notProvided),
		field(academicSummary, "verification_notes", "无"),
	))

	if metadata := subMap(result, "metadata"); len(metadata) > 0 {
		sections = append(sections, fmt.Sprintf(`## 四、 认证信息
- **认证时间**: %s
- **使用模型**: %s
- **文档类型**: %s
- **认证状态**: %s`,
			field(metadata, "verified_at", notProvided),
			field(metadata, "model_used", notProvided),
			field(metadata, "document_type", notProvided),
			field(metadata, "status", notProvided),
		))
	}

	return strings.Join(sections, "\n\n")
}

func renderSemester(n int, semester map[string]any) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `### 第%d学期: %s (%s)
- **学年**: %s
- **学期类型**: %s
- **时间**: %s 至 %s
- **学期学分**: %s
- **学期绩点**: %s

**课程列表**:`,
		n,
		field(semester, "name_zh", ""), field(semester, "name_en", ""),
		field(semester, "academic_year", notProvided),
		field(semester, "type", notProvided),
		field(semester, "start_date", notProvided), field(semester, "end_date", notProvided),
		field(semester, "total_credits", "0"),
		field(semester, "semester_gpa", notProvided),
	)

	for j, course := range subList(semester, "courses") {
		courseType := subMap(course, "course_type")
		fmt.Fprintf(&sb, `
%d. **%s** (%s)
   - **课程代码**: %s
   - **课程类型**: %s (%s)
   - **学分**: %s
   - **成绩**: %s
   - **绩点**: %s`,
			j+1,
			field(course, "name_zh", ""), field(course, "name_en", ""),
			field(course, "code", notProvided),
			field(courseType, "zh", ""), field(courseType, "en", ""),
			field(course, "credits", "0"),
			field(course, "grade", notProvided),
			field(course, "grade_points", notProvided),
		)
	}

	return sb.String()
}
