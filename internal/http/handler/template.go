package handler

import "strings"

// applicationTemplate is the blank application-information skeleton
// served by GET /template. The Markdown uses backtick-quoted
// placeholders, which a raw string literal cannot hold, so the source
// below writes them as single quotes and swaps them at init.
var applicationTemplate = strings.ReplaceAll(`
# 申请信息梳理模板

---

## 一、 申请人信息 (Applicant Information)

### 1. 基本身份与联络信息
- **姓名/性别**: '[请填写]'
- **出生日期**: '[年-月-日]'
- **护照号码 (或身份证号码)**: '[请填写]'
- **护照签发/过期日期**: '[签发日期] / [过期日期]'
- **联系电话**: '[请填写]'
- **申请邮箱**: '[请填写]'
- **密码**: '[请填写]'
- **国内家庭住址**: '[请填写详细地址]' (邮编: '[请填写]')

### 2. 教育背景
- **所在院校**: '[请填写]'
- **就读专业**: '[请填写]'
- **就读时间**: '[起始年月]' 至 '[结束年月]'
- **预计学位**: '[请填写]'
- **绩点 (GPA)**: '[绩点]' / '[总分]'

### 3. 语言成绩
- **考试类型**: '[如：雅思/托福]'
- **考试日期**: '[请填写]'
- **Reference Number**: '[请填写]'
- **总分**: '[分数]'
  - **听力**: '[分数]'
  - **阅读**: '[分数]'
  - **写作**: '[分数]'
  - **口语**: '[分数]'

### 4. 实习或全职工作信息
- **第一段经历**
  - **公司名称**: '[请填写]'
  - **公司地址**: '[请填写]'
  - **岗位名称**: '[请填写]'
  - **工作时间**: '[起始年月]' 至 '[结束年月]'
  - **工作内容描述**: '[请填写]'

- **第二段经历**
  - **公司名称**: '[请填写]'
  - **公司地址**: '[请填写]'
  - **岗位名称**: '[请填写]'
  - **工作时间**: '[起始年月]' 至 '[结束年月]'
  - **工作内容描述**: '[请填写]'

---

## 二、 推荐人信息 (Recommender Information)

### 推荐人 1
- **姓名**: '[请填写]'
- **职称**: '[请填写]'
- **与申请人关系**: '[请填写]'
- **所在单位**: '[请填写]'
- **单位地址**: '[请填写详细地址]' (邮编: '[请填写]')
- **邮箱**: '[请填写]'
- **联系电话**: '[请填写]'

### 推荐人 2
- **姓名**: '[请填写]'
- **职称**: '[请填写]'
- **与申请人关系**: '[请填写]'
- **所在单位**: '[请填写]'
- **单位地址**: '[请填写详细地址]' (邮编: '[请填写]')
- **邮箱**: '[请填写]'
- **联系电话**: '[请填写]'
`, "'", "`")
