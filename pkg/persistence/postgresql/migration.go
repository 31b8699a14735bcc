package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create projects table
			CREATE TABLE projects (
				id VARCHAR(255) PRIMARY KEY,
				organization_id VARCHAR(255) NOT NULL,
				customer_id VARCHAR(255),
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				current_stage VARCHAR(100) NOT NULL,
				timeline JSONB NOT NULL DEFAULT '{}',
				assigned_team JSONB NOT NULL DEFAULT '[]',
				status VARCHAR(50) NOT NULL CHECK (status IN ('active', 'paused', 'completed', 'cancelled')),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_projects_organization_id ON projects(organization_id);
			CREATE INDEX idx_projects_status ON projects(status);
			CREATE INDEX idx_projects_current_stage ON projects(current_stage);
			CREATE INDEX idx_projects_created_at ON projects(created_at);

			-- Create tasks table
			CREATE TABLE tasks (
				id VARCHAR(255) PRIMARY KEY,
				organization_id VARCHAR(255) NOT NULL,
				project_id VARCHAR(255) NOT NULL,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				stage VARCHAR(100) NOT NULL,
				task_type VARCHAR(50) NOT NULL,
				assigned_to VARCHAR(255),
				priority VARCHAR(50) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('pending', 'in_progress', 'review', 'completed', 'blocked')),
				estimated_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
				actual_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
				started_at TIMESTAMP WITH TIME ZONE,
				completed_at TIMESTAMP WITH TIME ZONE,
				due_date TIMESTAMP WITH TIME ZONE NOT NULL,
				dependencies JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_tasks_organization_id ON tasks(organization_id);
			CREATE INDEX idx_tasks_project_id ON tasks(project_id);
			CREATE INDEX idx_tasks_status ON tasks(status);
			CREATE INDEX idx_tasks_assigned_to ON tasks(assigned_to);
			CREATE INDEX idx_tasks_stage ON tasks(stage);

			-- Create staff table
			CREATE TABLE staff (
				id VARCHAR(255) PRIMARY KEY,
				organization_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255),
				role VARCHAR(100),
				skills JSONB NOT NULL DEFAULT '[]',
				max_concurrent_tasks INT NOT NULL DEFAULT 1,
				current_task_count INT NOT NULL DEFAULT 0,
				is_active BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_staff_organization_id ON staff(organization_id);
			CREATE INDEX idx_staff_is_active ON staff(is_active);
		`,
	}
}
