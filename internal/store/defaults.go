package store

import (
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
)

func defaultSchoolProfile() models.SchoolProfile {
	return models.SchoolProfile{
		Name:           "Manikgad Cbse classes",
		ContactNumbers: []string{"9309521598", "7666254983", "9561334669"},
	}
}

func defaultSessions() []models.AcademicSession {
	return []models.AcademicSession{
		{ID: "s1", Name: "2023-24", StartDate: "2023-04-01", EndDate: "2024-03-31", IsCurrent: false},
		{ID: "s2", Name: "2024-25", StartDate: "2024-04-01", EndDate: "2025-03-31", IsCurrent: true},
	}
}

func defaultFeeStructures() []models.FeeStructure {
	return []models.FeeStructure{
		{Grade: models.Grade5th, BaseAmount: 2000, CourseFees: []models.CourseFee{
			{Name: "Mathematics", Amount: 3000}, {Name: "Science", Amount: 3000}, {Name: "English", Amount: 2000},
		}},
		{Grade: models.Grade6th, BaseAmount: 2500, CourseFees: []models.CourseFee{
			{Name: "Mathematics", Amount: 4000}, {Name: "Science", Amount: 4000}, {Name: "English", Amount: 2500},
		}},
		{Grade: models.Grade7th, BaseAmount: 3000, CourseFees: []models.CourseFee{
			{Name: "Mathematics", Amount: 5000}, {Name: "Science", Amount: 5000}, {Name: "English", Amount: 3000},
		}},
		{Grade: models.Grade8th, BaseAmount: 3500, CourseFees: []models.CourseFee{
			{Name: "Mathematics", Amount: 5500}, {Name: "Science", Amount: 5500}, {Name: "English", Amount: 3500},
		}},
		{Grade: models.Grade9th, BaseAmount: 4000, CourseFees: []models.CourseFee{
			{Name: "Mathematics", Amount: 6000}, {Name: "Science", Amount: 6000}, {Name: "English", Amount: 4000},
		}},
		{Grade: models.Grade10th, BaseAmount: 5000, CourseFees: []models.CourseFee{
			{Name: "Mathematics", Amount: 7000}, {Name: "Science", Amount: 7000}, {Name: "English", Amount: 5000},
		}},
	}
}

func defaultStudents() []models.Student {
	return []models.Student{
		{
			ID: "1", FirstName: "Alice", LastName: "Johnson", Email: "alice.j@school.edu",
			Grade: models.Grade10th, Status: models.StudentActive, Attendance: 95, GPA: 3.8,
			TotalFees: 24000, PhotoURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Alice",
			EnrolledCourses: []string{"Mathematics", "Science", "English"},
			IsRegistered:    true, RegistrationDate: "2023-01-15", AdmissionDate: "2023-04-10",
		},
		{
			ID: "2", FirstName: "Bob", LastName: "Smith", Email: "bob.s@school.edu",
			Grade: models.Grade10th, Status: models.StudentActive, Attendance: 82, GPA: 2.9,
			TotalFees: 12000, PhotoURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Bob",
			EnrolledCourses: []string{"English"}, AdmissionDate: "2023-05-12",
		},
		{
			ID: "3", FirstName: "Charlie", LastName: "Davis", Email: "charlie.d@school.edu",
			Grade: models.Grade7th, Status: models.StudentActive, Attendance: 91, GPA: 3.5,
			TotalFees: 13000, PhotoURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=Charlie",
			EnrolledCourses: []string{"Mathematics", "English"}, AdmissionDate: "2024-04-15",
		},
	}
}

func defaultTeachers() []models.Teacher {
	return []models.Teacher{
		{ID: "T1", Name: "Dr. Sarah Wilson", Subject: "Science", Email: "s.wilson@school.edu", JoinDate: "2020-08-15"},
		{ID: "T2", Name: "Mr. John Miller", Subject: "Mathematics", Email: "j.miller@school.edu", JoinDate: "2019-01-10"},
	}
}

func defaultGrades() []models.GradeRecord {
	return []models.GradeRecord{
		{
			ID: "g1", StudentID: "1", Subject: "Science", TestName: "Unit Test 1",
			Score: 92, MaxScore: 100, Date: "2023-10-01", Feedback: "Excellent work on the biology unit.",
		},
	}
}

func defaultFees() []models.FeeRecord {
	return []models.FeeRecord{
		{
			ID: "f1", StudentID: "1", Amount: 5000, PaymentDate: "2023-09-15",
			Method: models.PaymentUPI, Category: models.FeeTuition,
			ReceiptNo: "RCP-8821", CollectedBy: "Super Admin",
		},
	}
}
