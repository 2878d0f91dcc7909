package service

import "comesapi/internal/ai"

// Sampling configuration is fixed and low-temperature: the prompts demand
// structured JSON, not creative text. The transcript budget is larger
// because course tables get long.
var (
	analysisGenConfig = ai.GenerationConfig{
		Temperature:     0.1,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 4096,
	}
	transcriptGenConfig = ai.GenerationConfig{
		Temperature:     0.1,
		TopP:            0.8,
		TopK:            40,
		MaxOutputTokens: 8192,
	}
)

// analysisPrompt instructs the model to extract application fields from
// the four uploaded documents and answer in a fixed JSON shape.
const analysisPrompt = `你是一个专业的留学申请信息提取专家。请分析以下学生申请文件内容，提取关键信息并按照指定格式组织。

你需要分析的文件类型包括：
1. 成绩单 (Transcript) - 包含课程成绩、GPA等信息
2. 学位证书 (Degree Certificate) - 包含学位、专业、毕业时间等信息
3. 个人简历 (Resume) - 包含教育背景、工作经历、技能等信息
4. 雅思成绩单 (IELTS Score) - 包含语言考试成绩信息

请从这些文件中提取以下信息，并按照以下JSON格式返回：

{
  "applicant_info": {
    "name": "申请人姓名",
    "gender": "性别",
    "birth_date": "出生日期 (YYYY-MM-DD格式)",
    "passport_number": "护照号码",
    "passport_issue_date": "护照签发日期",
    "passport_expiry_date": "护照过期日期",
    "phone": "联系电话",
    "email": "申请邮箱",
    "password": "密码（如有）",
    "domestic_address": "国内家庭住址",
    "postal_code": "邮编"
  },
  "education_background": {
    "university": "所在院校",
    "major": "就读专业",
    "study_period": {
      "start_date": "起始年月",
      "end_date": "结束年月"
    },
    "expected_degree": "预计学位",
    "gpa": {
      "score": "绩点分数",
      "scale": "总分（如4.0或100）"
    }
  },
  "language_test": {
    "test_type": "考试类型（如：雅思/托福）",
    "test_date": "考试日期",
    "reference_number": "Reference Number",
    "total_score": "总分",
    "sections": {
      "listening": "听力分数",
      "reading": "阅读分数",
      "writing": "写作分数",
      "speaking": "口语分数"
    }
  },
  "work_experience": [
    {
      "company_name": "公司名称",
      "company_address": "公司地址",
      "position": "岗位名称",
      "work_period": {
        "start_date": "起始年月",
        "end_date": "结束年月"
      },
      "job_description": "工作内容描述"
    }
  ],
  "recommenders": [
    {
      "name": "推荐人姓名",
      "title": "职称",
      "relationship": "与申请人关系",
      "organization": "所在单位",
      "organization_address": "单位地址",
      "postal_code": "邮编",
      "email": "邮箱",
      "phone": "联系电话"
    }
  ]
}

如果某些信息无法从文件中找到，请将对应字段设为null。请确保提取的信息尽可能准确完整。`

// transcriptPrompt instructs the model to extract academic records from
// one or two transcript files and answer in a fixed JSON shape.
const transcriptPrompt = `你是一个专业的成绩单认证专家。请分析以下成绩单内容，提取关键学术信息并按照指定格式组织。

成绩单可能包含以下形式：
1. 双语成绩单：同一文件中同时包含中文和英文内容
2. 中文成绩单：仅包含中文内容
3. 英文成绩单：仅包含英文内容
4. 分开的成绩单：分别上传中文和英文成绩单

请从成绩单中提取以下信息，并按照以下JSON格式返回：

{
  "student_info": {
    "name_zh": "学生中文姓名",
    "name_en": "学生英文姓名",
    "student_id": "学号",
    "university": "所在院校",
    "major": "专业",
    "degree_level": "学位级别（如：本科、硕士、博士）",
    "graduation_date": "预计毕业日期（YYYY-MM格式）",
    "overall_gpa": "总平均绩点",
    "gpa_scale": "绩点总分（如4.0或100）"
  },
  "semesters": [
    {
      "semester_id": "学期标识",
      "name_zh": "学期中文名（如：第一学期、上学期、2023秋季）",
      "name_en": "学期英文名（如：Fall 2023, Spring 2024）",
      "type": "学期类型（fall/spring/summer/winter/custom）",
      "academic_year": "学年（如：2023-2024）",
      "start_date": "开始日期（YYYY-MM-DD，如已知）",
      "end_date": "结束日期（YYYY-MM-DD，如已知）",
      "courses": [
        {
          "course_id": "课程标识",
          "code": "课程代码（如：CS101）",
          "name_zh": "课程中文名",
          "name_en": "课程英文名",
          "course_type": {
            "type": "课程类型（core/elective/major/general/required/optional/practical/thesis/internship/language）",
            "en": "课程类型英文描述",
            "zh": "课程类型中文描述"
          },
          "credits": "学分",
          "grade": "成绩（如：A, 90, 优秀）",
          "grade_points": "绩点分数（如：4.0, 3.5）",
          "description": "课程描述（如已知）"
        }
      ],
      "total_credits": "该学期总学分",
      "semester_gpa": "该学期绩点（如已知）"
    }
  ],
  "academic_summary": {
    "total_credits": "总学分",
    "total_courses": "总课程数",
    "academic_standing": "学业状态（如：良好、优秀）",
    "verification_notes": "认证备注"
  }
}

提取规则：
1. 学期划分：根据成绩单上的学期信息，将课程按学期分组
2. 课程类型判断：根据课程名称、描述或学分判断课程类型
   - 核心课程（core）：专业核心必修课
   - 专业课程（major）：专业相关课程
   - 选修课程（elective）：选修课
   - 通识课程（general）：通识教育课
   - 必修课程（required）：必修课
   - 可选课程（optional）：可选课
   - 实践课程（practical）：实验、实践课
   - 论文课程（thesis）：毕业论文、设计
   - 实习课程（internship）：实习
   - 语言课程（language）：语言类课程
3. 双语匹配：如果成绩单是双语或分开上传，请确保中英文课程名称正确匹配
4. 学分计算：确保学分数值准确提取
5. 成绩提取：如果成绩单包含成绩，请提取成绩信息

如果某些信息无法找到，请将对应字段设为null。请确保提取的信息尽可能准确完整。`
