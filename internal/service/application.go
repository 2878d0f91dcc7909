package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"comesapi/internal/ai"
	"comesapi/internal/model"
	"comesapi/internal/storage"
)

// Placeholder used when an extracted field is missing from the model output.
const missingInfo = "信息缺失"

// The four expected document keys, in prompt order.
var applicationFileKeys = []string{"transcript", "degree_certificate", "resume", "ielts_score"}

// Section headers keyed by document key; unknown keys get a generic header.
var applicationHeaders = map[string]string{
	"transcript":         "=== 成绩单 (Transcript) ===",
	"degree_certificate": "=== 学位证书 (Degree Certificate) ===",
	"resume":             "=== 个人简历 (Resume) ===",
	"ielts_score":        "=== 雅思成绩单 (IELTS Score) ===",
}

// TextExtractor converts a stored file into plain text, degrading to ""
// on any failure.
type TextExtractor interface {
	Text(path, contentType string) string
}

// DocumentAnalyzer is the application-analysis capability. Two variants
// exist: the live Gemini-backed AnalysisService and UnavailableAnalyzer,
// selected once at startup depending on credential presence.
type DocumentAnalyzer interface {
	// AnalyzeDocuments extracts text from the uploaded files, prompts the
	// model, and returns the parsed structured result. Recoverable
	// failures (model call errors, unparseable output) are embedded in
	// the returned payload under "error" rather than returned as an error.
	AnalyzeDocuments(ctx context.Context, files map[string]model.FileInfo) (map[string]any, error)

	// GenerateStructuredSummary renders the structured result into the
	// fixed Markdown report. Pure formatting; never fails outward.
	GenerateStructuredSummary(result map[string]any) string
}

// AnalysisService analyzes student application documents with Gemini.
type AnalysisService struct {
	gen       ai.Generator
	store     storage.Storage
	extractor TextExtractor
	modelName string
	log       *zap.Logger
}

// NewAnalysisService constructs the live analyzer.
func NewAnalysisService(gen ai.Generator, store storage.Storage, extractor TextExtractor, modelName string, log *zap.Logger) *AnalysisService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisService{gen: gen, store: store, extractor: extractor, modelName: modelName, log: log}
}

var _ DocumentAnalyzer = (*AnalysisService)(nil)

// extractTexts pulls every uploaded file to a local path and extracts its
// text. A file that cannot be fetched or read contributes an empty string.
func extractTexts(ctx context.Context, store storage.Storage, extractor TextExtractor, files map[string]model.FileInfo, log *zap.Logger) map[string]string {
	texts := make(map[string]string, len(files))
	for key, info := range files {
		path, cleanup, err := store.Fetch(ctx, info.StoragePath)
		if err != nil {
			log.Warn("fetch for extraction failed",
				zap.String("file_key", key),
				zap.String("storage_path", info.StoragePath),
				zap.Error(err))
			texts[key] = ""
			continue
		}
		texts[key] = extractor.Text(path, info.ContentType)
		cleanup()
		log.Info("extracted document text",
			zap.String("file_key", key),
			zap.Int("chars", len(texts[key])))
	}
	return texts
}

// buildAnalysisContent assembles the per-document sections in a fixed
// order: the four known keys first, then any extras sorted by name, so the
// prompt body is deterministic.
func buildAnalysisContent(texts map[string]string) string {
	var parts []string
	seen := make(map[string]bool, len(applicationFileKeys))

	for _, key := range applicationFileKeys {
		if text, ok := texts[key]; ok {
			parts = append(parts, fmt.Sprintf("%s\n%s\n", applicationHeaders[key], text))
			seen[key] = true
		}
	}

	var extras []string
	for key := range texts {
		if !seen[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		parts = append(parts, fmt.Sprintf("=== %s ===\n%s\n", key, texts[key]))
	}

	return strings.Join(parts, "\n")
}

// truncateTexts caps each extracted text at limit runes for inclusion in
// error payloads.
func truncateTexts(texts map[string]string, limit int) map[string]string {
	out := make(map[string]string, len(texts))
	for key, text := range texts {
		if text == "" {
			out[key] = ""
			continue
		}
		runes := []rune(text)
		if len(runes) > limit {
			out[key] = string(runes[:limit]) + "..."
		} else {
			out[key] = text
		}
	}
	return out
}

// AnalyzeDocuments runs the full extract → prompt → parse pipeline.
func (s *AnalysisService) AnalyzeDocuments(ctx context.Context, files map[string]model.FileInfo) (map[string]any, error) {
	texts := extractTexts(ctx, s.store, s.extractor, files, s.log)
	content := buildAnalysisContent(texts)

	raw, err := s.gen.Generate(ctx, s.modelName, analysisGenConfig, analysisPrompt, content)
	if err != nil {
		s.log.Error("document analysis call failed", zap.String("model", s.modelName), zap.Error(err))
		return map[string]any{
			"error":          err.Error(),
			"document_texts": truncateTexts(texts, 100),
		}, nil
	}

	result, ok := parseModelJSON(raw)
	if !ok {
		s.log.Warn("analysis response was not valid JSON", zap.Int("response_len", len(raw)))
	}
	return result, nil
}

// GenerateStructuredSummary fills the application report template from the
// structured result. Missing fields render as the 信息缺失 placeholder.
func (s *AnalysisService) GenerateStructuredSummary(result map[string]any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("structured summary rendering panicked", zap.Any("panic", r))
			out = fmt.Sprintf("生成结构化总结时出错: %v", r)
		}
	}()
	return renderApplicationSummary(result)
}

func renderApplicationSummary(result map[string]any) string {
	applicant := subMap(result, "applicant_info")
	education := subMap(result, "education_background")
	languageTest := subMap(result, "language_test")
	studyPeriod := subMap(education, "study_period")
	gpa := subMap(education, "gpa")
	sections := subMap(languageTest, "sections")

	return fmt.Sprintf(`# 申请信息梳理模板

---

## 一、 申请人信息 (Applicant Information)

### 1. 基本身份与联络信息
- **姓名/性别**: %s/%s
- **出生日期**: %s
- **护照号码 (或身份证号码)**: %s
- **护照签发/过期日期**: %s / %s
- **联系电话**: %s
- **申请邮箱**: %s
- **密码**: %s
- **国内家庭住址**: %s (邮编: %s)

### 2. 教育背景
- **所在院校**: %s
- **就读专业**: %s
- **就读时间**: %s 至 %s
- **预计学位**: %s
- **绩点 (GPA)**: %s / %s

### 3. 语言成绩
- **考试类型**: %s
- **考试日期**: %s
- **Reference Number**: %s
- **总分**: %s
  - **听力**: %s
  - **阅读**: %s
  - **写作**: %s
  - **口语**: %s

### 4. 实习或全职工作信息
%s

---

## 二、 推荐人信息 (Recommender Information)

%s`,
		field(applicant, "name", missingInfo), field(applicant, "gender", missingInfo),
		field(applicant, "birth_date", missingInfo),
		field(applicant, "passport_number", missingInfo),
		field(applicant, "passport_issue_date", missingInfo), field(applicant, "passport_expiry_date", missingInfo),
		field(applicant, "phone", missingInfo),
		field(applicant, "email", missingInfo),
		field(applicant, "password", missingInfo),
		field(applicant, "domestic_address", missingInfo), field(applicant, "postal_code", missingInfo),
		field(education, "university", missingInfo),
		field(education, "major", missingInfo),
		field(studyPeriod, "start_date", missingInfo), field(studyPeriod, "end_date", missingInfo),
		field(education, "expected_degree", missingInfo),
		field(gpa, "score", missingInfo), field(gpa, "scale", missingInfo),
		field(languageTest, "test_type", missingInfo),
		field(languageTest, "test_date", missingInfo),
		field(languageTest, "reference_number", missingInfo),
		field(languageTest, "total_score", missingInfo),
		field(sections, "listening", missingInfo),
		field(sections, "reading", missingInfo),
		field(sections, "writing", missingInfo),
		field(sections, "speaking", missingInfo),
		renderWorkExperience(subList(result, "work_experience")),
		renderRecommenders(subList(result, "recommenders")),
	)
}

func renderWorkExperience(entries []map[string]any) string {
	if len(entries) == 0 {
		return "**暂无工作经历信息**"
	}

	sections := make([]string, 0, len(entries))
	for i, work := range entries {
		period := subMap(work, "work_period")
		sections = append(sections, fmt.Sprintf(`- **第%d段经历**
  - **公司名称**: %s
  - **公司地址**: %s
  - **岗位名称**: %s
  - **工作时间**: %s 至 %s
  - **工作内容描述**: %s`,
			i+1,
			field(work, "company_name", missingInfo),
			field(work, "company_address", missingInfo),
			field(work, "position", missingInfo),
			field(period, "start_date", missingInfo), field(period, "end_date", missingInfo),
			field(work, "job_description", missingInfo),
		))
	}
	return strings.Join(sections, "\n\n")
}

func renderRecommenders(entries []map[string]any) string {
	if len(entries) == 0 {
		return "**暂无推荐人信息**"
	}

	sections := make([]string, 0, len(entries))
	for i, rec := range entries {
		sections = append(sections, fmt.Sprintf(`### 推荐人 %d
- **姓名**: %s
- **职称**: %s
- **与申请人关系**: %s
- **所在单位**: %s
- **单位地址**: %s (邮编: %s)
- **邮箱**: %s
- **联系电话**: %s`,
			i+1,
			field(rec, "name", missingInfo),
			field(rec, "title", missingInfo),
			field(rec, "relationship", missingInfo),
			field(rec, "organization", missingInfo),
			field(rec, "organization_address", missingInfo), field(rec, "postal_code", missingInfo),
			field(rec, "email", missingInfo),
			field(rec, "phone", missingInfo),
		))
	}
	return strings.Join(sections, "\n\n")
}
